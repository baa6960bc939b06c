package render

// Letters returns the default label for position i: A..Z, then AA, AB, ...
func Letters(i int) string {
	if i < 0 {
		return ""
	}
	var buf []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		buf = append([]byte{byte('A' + (n-1)%26)}, buf...)
	}
	return string(buf)
}

// LabelFor returns labels[i] when the user supplied one, else Letters(i).
func LabelFor(i int, labels []string) string {
	if i >= 0 && i < len(labels) {
		return labels[i]
	}
	return Letters(i)
}
