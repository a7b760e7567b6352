// Package catalog holds the sellable services: prices in minor units,
// payment descriptions and which services need a follow-up prompt and photo
// from the user after payment. Button labels and menu texts live in
// internal/messages; this package is the pricing source of truth.
package catalog

type Service struct {
	Type        string
	Title       string
	Description string
	// Price in minor units (kopecks).
	Price int64
	// NeedsInput marks services that collect a prompt and a photo from the
	// user after payment instead of fulfilling immediately.
	NeedsInput bool
}

const (
	SessionPregnancy = "session_pregnancy"
	SessionNewborn   = "session_newborn"
	SessionMonthly   = "session_monthly"
	SessionSeasonal  = "session_seasonal"
	SessionFamily    = "session_family"
	SessionHome      = "session_home"
	SessionPortrait  = "session_portrait"
	ReadyPhoto       = "ready_photo"
	CustomEdit       = "custom_edit"
	CustomUnique     = "custom_unique"
)

var services = map[string]Service{
	SessionPregnancy: {
		Type:        SessionPregnancy,
		Title:       "🤰 Фотосессия беременности",
		Description: "📷 Фотосессия беременности",
		Price:       99900,
	},
	SessionNewborn: {
		Type:        SessionNewborn,
		Title:       "👶 Фотосессия Newborn",
		Description: "👶 Фотосессия Newborn",
		Price:       99900,
	},
	SessionMonthly: {
		Type:        SessionMonthly,
		Title:       "📅 Фотосессии по месяцам",
		Description: "📅 Фотосессии по месяцам",
		Price:       99900,
	},
	SessionSeasonal: {
		Type:        SessionSeasonal,
		Title:       "🌍 Сезонные фотосессии",
		Description: "🌍 Сезонные фотосессии",
		Price:       99900,
	},
	SessionFamily: {
		Type:        SessionFamily,
		Title:       "👨‍👩‍👧‍👦 Семейные фотосессии",
		Description: "👨‍👩‍👧‍👦 Семейные фотосессии",
		Price:       99900,
	},
	SessionHome: {
		Type:        SessionHome,
		Title:       "🏠 Домашние фотосессии",
		Description: "🏠 Домашние фотосессии",
		Price:       99900,
	},
	SessionPortrait: {
		Type:        SessionPortrait,
		Title:       "👤 Портретные фотосессии",
		Description: "👤 Портретные фотосессии",
		Price:       99900,
	},
	ReadyPhoto: {
		Type:        ReadyPhoto,
		Title:       "🖼️ Обработка готового фото",
		Description: "🖼️ Обработка готового фото",
		Price:       49900,
	},
	CustomEdit: {
		Type:        CustomEdit,
		Title:       "🎨 Генерация фото по описанию",
		Description: "🎨 Генерация фото по описанию",
		Price:       149900,
		NeedsInput:  true,
	},
	CustomUnique: {
		Type:        CustomUnique,
		Title:       "✨ Уникальное фото с AI",
		Description: "🎨 Уникальное фото с AI",
		Price:       1000,
		NeedsInput:  true,
	},
}

var sessionOrder = []string{
	SessionPregnancy, SessionNewborn, SessionMonthly, SessionSeasonal,
	SessionFamily, SessionHome, SessionPortrait,
}

func Get(serviceType string) (Service, bool) {
	s, ok := services[serviceType]
	return s, ok
}

// Sessions returns the photo-session packs in menu order.
func Sessions() []Service {
	out := make([]Service, 0, len(sessionOrder))
	for _, t := range sessionOrder {
		out = append(out, services[t])
	}
	return out
}
