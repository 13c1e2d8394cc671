package news

// IsRussianText reports whether text is likely Russian. Text without letters
// counts as Russian.
func IsRussianText(text string) bool {
	var cyrillic, latin int
	for _, r := range text {
		switch {
		case r >= 0x0400 && r <= 0x04FF:
			cyrillic++
		case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
			latin++
		}
	}

	total := cyrillic + latin
	if total == 0 {
		return true
	}
	if latin > cyrillic {
		return false
	}
	return float64(cyrillic)/float64(total) > 0.3
}
