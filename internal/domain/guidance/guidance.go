// Package guidance maps a UV index magnitude to the tiered advisory text
// included in alert mails. Copy is user-facing Portuguese.
package guidance

// Level is the advisory tier for a UV reading.
type Level string

const (
	LevelExtreme  Level = "extreme"
	LevelVeryHigh Level = "very_high"
	LevelHigh     Level = "high"
	LevelModerate Level = "moderate"
	LevelLow      Level = "low"
	// LevelUnknown is returned when no reading is available at all. Absence
	// of data is never collapsed into the low tier.
	LevelUnknown Level = "unknown"
)

// Advisory is the selected tier plus its message body.
type Advisory struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

const (
	textExtreme = "🌡️ Extremamente alto! O índice UV está perigosamente elevado.\n\n" +
		"⚠️ Riscos: Queimaduras em menos de 10 minutos, risco alto de câncer de pele e danos aos olhos.\n\n" +
		"📌 Cuidados essenciais:\n" +
		"- Evite sair ao sol entre 10h e 16h.\n" +
		"- Use protetor solar FPS 50+ e reaplique a cada 2 horas.\n" +
		"- Use chapéu de aba larga, óculos escuros com proteção UV e roupas com proteção solar.\n" +
		"- Busque sombra sempre que possível.\n" +
		"- Crianças e idosos devem evitar exposição direta.\n\n" +
		"🛑 Se puder, permaneça em locais cobertos durante esse período."

	textVeryHigh = "⚠️ Muito alto! O índice UV está elevado e pode causar danos sérios à pele e aos olhos.\n\n" +
		"📌 Cuidados recomendados:\n" +
		"- Evite exposição direta ao sol entre 10h e 16h.\n" +
		"- Use protetor solar com FPS 30+ e reaplique a cada 2 horas.\n" +
		"- Use chapéu, boné ou guarda-sol ao sair.\n" +
		"- Use óculos escuros com proteção UV.\n" +
		"- Prefira roupas de manga longa e tecidos leves.\n\n" +
		"🚸 Crianças, idosos e pessoas com pele clara devem redobrar os cuidados."

	textHigh = "🌞 Alto! O índice UV pode causar danos à pele e aos olhos em exposições prolongadas.\n\n" +
		"📌 Dicas de proteção:\n" +
		"- Evite exposição direta ao sol entre 10h e 16h.\n" +
		"- Use protetor solar com FPS 30+ mesmo em dias nublados.\n" +
		"- Use boné, óculos escuros e roupas leves que cubram a pele.\n" +
		"- Prefira ambientes com sombra e mantenha-se hidratado.\n\n" +
		"📣 Fique atento(a): mesmo níveis altos podem causar danos cumulativos à pele com o tempo."

	textModerate = "🧴 Moderado. O índice UV está dentro de níveis aceitáveis, mas ainda requer atenção.\n\n" +
		"📌 Dicas de proteção:\n" +
		"- Use protetor solar com FPS 15+ se for se expor ao sol por longos períodos.\n" +
		"- Prefira ficar na sombra entre 10h e 16h.\n" +
		"- Use óculos escuros e boné ou chapéu se for sair.\n\n" +
		"💡 Dica extra: mesmo em dias nublados, os raios UV continuam presentes!"

	textLow = "✅ Baixo. Ainda assim, proteção nunca é demais!"

	textUnknown = "⚠️ Não foi possível consultar o índice UV no momento. Continue se protegendo!"
)

// Classify selects the advisory for a UV index. A nil value means the
// provider chain produced no reading and yields the distinct unknown
// advisory rather than the low tier.
func Classify(uv *float64) Advisory {
	if uv == nil {
		return Advisory{Level: LevelUnknown, Text: textUnknown}
	}

	switch v := *uv; {
	case v >= 11:
		return Advisory{Level: LevelExtreme, Text: textExtreme}
	case v >= 8:
		return Advisory{Level: LevelVeryHigh, Text: textVeryHigh}
	case v >= 6:
		return Advisory{Level: LevelHigh, Text: textHigh}
	case v >= 3:
		return Advisory{Level: LevelModerate, Text: textModerate}
	default:
		return Advisory{Level: LevelLow, Text: textLow}
	}
}
