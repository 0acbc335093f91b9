package service

// LabelUnknown is returned for codes the rating table does not cover.
const LabelUnknown = "Unknown"

var ratings = map[int]string{
	2: "Good",
	3: "Excellent",
	4: "Outstanding",
}

// LabelFor maps a model class code to its performance label.
func LabelFor(code int) string {
	if label, ok := ratings[code]; ok {
		return label
	}

	return LabelUnknown
}
