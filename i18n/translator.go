package i18n

// Translator retrieves localized messages for error and issue codes.
// data provides optional metadata to embed in the message (for example,
// "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"unknown_schema_key":           "layout references a key missing from the schema",
		"unsupported_schema_construct": "unsupported schema construct",
		"unresolvable_type":            "cannot infer an element type from the schema",
		"multiple_schema_types":        "schema element declares multiple types",
		"unknown_kind":                 "unknown element type",
		"invalid_layout":               "invalid layout",
		"required":                     "required property missing",
		"invalid_type":                 "invalid type",
		"too_short":                    "too short",
		"too_long":                     "too long",
		"too_small":                    "too small",
		"too_big":                      "too big",
		"pattern":                      "does not match the expected pattern",
		"invalid_enum":                 "not one of the allowed values",
		"invalid_format":               "invalid format",
		"invalid":                      "invalid value",
	},
	"ja": {
		"unknown_schema_key":           "レイアウトがスキーマに存在しないキーを参照しています",
		"unsupported_schema_construct": "サポートされていないスキーマ構文です",
		"unresolvable_type":            "スキーマから要素の種類を推論できません",
		"multiple_schema_types":        "スキーマ要素に複数の型が宣言されています",
		"unknown_kind":                 "未知の要素の種類です",
		"invalid_layout":               "レイアウトが不正です",
		"required":                     "必須プロパティが不足しています",
		"invalid_type":                 "型が不正です",
		"too_short":                    "短すぎます",
		"too_long":                     "長すぎます",
		"too_small":                    "小さすぎます",
		"too_big":                      "大きすぎます",
		"pattern":                      "パターンに一致しません",
		"invalid_enum":                 "許可された値ではありません",
		"invalid_format":               "形式が不正です",
		"invalid":                      "値が不正です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	if msg, ok := dictionaries[t.lang][code]; ok {
		return msg
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
