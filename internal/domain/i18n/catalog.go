package i18n

import "strings"

// The service renders every user-facing string in one of two
// right-to-left languages: Persian (fa, primary) and Arabic (ar).

// Direction is the text direction for every supported language.
const Direction = "rtl"

// DefaultLang is used when a requested language is unknown.
const DefaultLang = "fa"

// Supported reports whether the language code has a catalog.
func Supported(lang string) bool {
	_, ok := uiStrings[lang]
	return ok
}

// Strings returns the full UI string table for a language.
func Strings(lang string) map[string]string {
	if table, ok := uiStrings[lang]; ok {
		return table
	}
	return uiStrings[DefaultLang]
}

// T renders a single UI string. Unknown keys return the key itself so a
// missing entry is visible instead of silently blank.
func T(lang, key string) string {
	if v, ok := Strings(lang)[key]; ok {
		return v
	}
	return key
}

// TranslateWatering maps a watering category to the active language.
// Values absent from the table pass through unchanged.
func TranslateWatering(lang, value string) string {
	if table, ok := wateringValues[lang]; ok {
		if v, ok := table[value]; ok {
			return v
		}
	}
	return value
}

// TranslateSunlight maps each sunlight category to the active language,
// preserving the order reported by the species detail service. Lookup is
// case-insensitive because the upstream mixes "Part shade" and "part shade".
func TranslateSunlight(lang string, values []string) []string {
	out := make([]string, 0, len(values))
	table := sunlightValues[lang]
	for _, value := range values {
		if v, ok := table[strings.ToLower(value)]; ok {
			out = append(out, v)
			continue
		}
		out = append(out, value)
	}
	return out
}

var uiStrings = map[string]map[string]string{
	"fa": {
		"appTitle":           "شناسایی گیاه",
		"pickImage":          "انتخاب تصویر",
		"pickAnother":        "انتخاب تصویر دیگر",
		"identify":           "شناسایی کن",
		"identifying":        "در حال شناسایی...",
		"results":            "نتایج شناسایی",
		"careGuide":          "راهنمای نگهداری",
		"watering":           "آبیاری",
		"sunlight":           "نور مورد نیاز",
		"about":              "درباره گیاه",
		"probability":        "درصد اطمینان",
		"noSuggestions":      "گیاهی شناسایی نشد",
		"missingCredentials": "کلید سرویس شناسایی تنظیم نشده است",
		"noImageSelected":    "ابتدا یک تصویر انتخاب کنید",
		"identifyFailed":     "شناسایی گیاه ناموفق بود",
	},
	"ar": {
		"appTitle":           "تحديد النبات",
		"pickImage":          "اختيار صورة",
		"pickAnother":        "اختيار صورة أخرى",
		"identify":           "تعرّف",
		"identifying":        "جارٍ التعرف...",
		"results":            "نتائج التعرف",
		"careGuide":          "دليل العناية",
		"watering":           "الري",
		"sunlight":           "الإضاءة المطلوبة",
		"about":              "عن النبات",
		"probability":        "نسبة الثقة",
		"noSuggestions":      "لم يتم التعرف على أي نبات",
		"missingCredentials": "مفتاح خدمة التعرف غير مضبوط",
		"noImageSelected":    "يرجى اختيار صورة أولاً",
		"identifyFailed":     "فشل التعرف على النبات",
	},
}

var wateringValues = map[string]map[string]string{
	"fa": {
		"Frequent": "زیاد",
		"Average":  "متوسط",
		"Minimum":  "کم",
		"None":     "بدون نیاز به آبیاری",
	},
	"ar": {
		"Frequent": "متكرر",
		"Average":  "متوسط",
		"Minimum":  "قليل",
		"None":     "لا يحتاج إلى ري",
	},
}

var sunlightValues = map[string]map[string]string{
	"fa": {
		"full sun":            "آفتاب کامل",
		"part sun":            "آفتاب جزئی",
		"part shade":          "نیم‌سایه",
		"part sun/part shade": "آفتاب و سایه جزئی",
		"full shade":          "سایه کامل",
		"filtered shade":      "سایه صافی‌شده",
	},
	"ar": {
		"full sun":            "شمس كاملة",
		"part sun":            "شمس جزئية",
		"part shade":          "ظل جزئي",
		"part sun/part shade": "شمس وظل جزئي",
		"full shade":          "ظل كامل",
		"filtered shade":      "ظل مُرشَّح",
	},
}
