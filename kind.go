package formtree

// Kind is the presentation kind of a node.
type Kind int

const (
	KindNone Kind = iota
	KindRoot
	KindText
	KindPassword
	KindDate
	KindDatetime
	KindDatetimeLocal
	KindEmail
	KindMonth
	KindNumber
	KindSearch
	KindTel
	KindTime
	KindURL
	KindWeek
	KindRange
	KindColor
	KindCheckbox
	KindFile
	KindSelect
	KindRadioButtons
	KindCheckboxes
	KindTextarea
	KindArray
	KindTabArray
	KindHelp
	KindMsg
	KindFieldset
	KindAdvancedFieldset
	KindAuthFieldset
	KindSubmit
	KindButton
	KindActions
	KindHidden
	KindTabs
	KindTab
	KindSelectFieldset
	KindOptionFieldset
	KindSection
	KindQuestions
	KindQuestion
	KindButtonQuestion

	kindCount
)

var kindNames = [kindCount]string{
	KindNone:             "none",
	KindRoot:             "root",
	KindText:             "text",
	KindPassword:         "password",
	KindDate:             "date",
	KindDatetime:         "datetime",
	KindDatetimeLocal:    "datetime-local",
	KindEmail:            "email",
	KindMonth:            "month",
	KindNumber:           "number",
	KindSearch:           "search",
	KindTel:              "tel",
	KindTime:             "time",
	KindURL:              "url",
	KindWeek:             "week",
	KindRange:            "range",
	KindColor:            "color",
	KindCheckbox:         "checkbox",
	KindFile:             "file",
	KindSelect:           "select",
	KindRadioButtons:     "radiobuttons",
	KindCheckboxes:       "checkboxes",
	KindTextarea:         "textarea",
	KindArray:            "array",
	KindTabArray:         "tabarray",
	KindHelp:             "help",
	KindMsg:              "msg",
	KindFieldset:         "fieldset",
	KindAdvancedFieldset: "advancedfieldset",
	KindAuthFieldset:     "authfieldset",
	KindSubmit:           "submit",
	KindButton:           "button",
	KindActions:          "actions",
	KindHidden:           "hidden",
	KindTabs:             "tabs",
	KindTab:              "tab",
	KindSelectFieldset:   "selectfieldset",
	KindOptionFieldset:   "optionfieldset",
	KindSection:          "section",
	KindQuestions:        "questions",
	KindQuestion:         "question",
	KindButtonQuestion:   "buttonquestion",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

// ParseKind returns the kind registered under name.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "kind(?)"
	}
	return kindNames[k]
}

// View describes how a kind behaves.
type View struct {
	// Array kinds own an item template and one child per item.
	Array bool
	// Input kinds bind a named field.
	Input bool
	// Counter kinds get a generated identifier when the layout has none.
	Counter bool

	// BeforeRender completes the data handed to the renderer.
	BeforeRender func(t *Tree, n *Node, d *RenderData)
	// OnInsert runs once the node has been presented.
	OnInsert func(t *Tree, n *Node) error
	// OnChange runs when the live value of the node changes.
	OnChange func(t *Tree, n *Node, v any)
}

// View returns the behavior registered for k.
func (k Kind) View() View {
	if k < 0 || k >= kindCount {
		return View{}
	}
	return views[k]
}

var views [kindCount]View

func init() {
	for _, k := range []Kind{
		KindText, KindPassword, KindDate, KindDatetime, KindDatetimeLocal,
		KindEmail, KindMonth, KindNumber, KindSearch, KindTel, KindTime,
		KindURL, KindWeek, KindColor, KindCheckbox, KindFile, KindHidden,
		KindTextarea,
	} {
		views[k] = View{Input: true, OnChange: legendOnChange}
	}
	views[KindRange] = View{Input: true, BeforeRender: rangeBeforeRender, OnChange: legendOnChange}
	views[KindSelect] = View{Input: true, BeforeRender: optionsBeforeRender, OnChange: legendOnChange}
	views[KindRadioButtons] = View{Input: true, BeforeRender: optionsBeforeRender, OnChange: legendOnChange}
	views[KindCheckboxes] = View{Input: true, BeforeRender: checkboxesBeforeRender}
	views[KindArray] = View{Array: true, OnInsert: fillToMinItems}
	views[KindTabArray] = View{Array: true, BeforeRender: tabsBeforeRender, OnInsert: fillToMinItems}
	views[KindButton] = View{Counter: true}
	views[KindQuestion] = View{Counter: true}
	views[KindButtonQuestion] = View{Counter: true}
	views[KindSelectFieldset] = View{Counter: true, BeforeRender: selectFieldsetBeforeRender}
}
