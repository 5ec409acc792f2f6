package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "field" or "tag").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "out_of_range":
			return "範囲外の値です"
		case "pattern":
			return "パターンに一致しません"
		case "invalid_format":
			return "書式に一致しません"
		case "unknown_field":
			return "未知のフィールドです"
		case "required":
			return "必須フィールドが不足しています"
		case "not_nullable":
			return "null を許可しないフィールドです"
		case "tag_not_set":
			return "タグが選択されていません"
		case "union_ambiguous":
			return "共用体のタグを一意に決定できません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "out_of_range":
			return "value out of range"
		case "pattern":
			return "pattern mismatch"
		case "invalid_format":
			return "format mismatch"
		case "unknown_field":
			return "unknown field"
		case "required":
			return "required field missing"
		case "not_nullable":
			return "field is not nullable"
		case "tag_not_set":
			return "tag not set"
		case "union_ambiguous":
			return "ambiguous union payload"
		case "parse_error":
			return "parse error"
		}
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
