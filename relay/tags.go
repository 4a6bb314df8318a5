package relay

// FieldTags is the allow-list of product category tags forwarded to the
// issue table. Matching is case-sensitive and exact.
var FieldTags = []string{"dynamixel", "ai-worker", "omy", "omx", "hand", "turtlebot", "others"}

// StatusTagLabel maps status marker tags (with or without their emoji
// prefix) to the labels used in the issue table.
var StatusTagLabel = map[string]string{
	"🟢New":      "New Issue",
	"🟡Handling": "Handling",
	"✅Solved":   "Complete",
	"New":       "New Issue",
	"Handling":  "Handling",
	"Solved":    "Complete",
}

// Classify splits a thread's tag names into the field tags kept verbatim
// and the status tags mapped to their labels. Input order and duplicates
// are preserved; unrecognized tags are dropped from both views.
func Classify(tagNames []string) (fieldTags, statusTags []string) {
	for _, name := range tagNames {
		if isFieldTag(name) {
			fieldTags = append(fieldTags, name)
		}
		if label, ok := StatusTagLabel[name]; ok {
			statusTags = append(statusTags, label)
		}
	}
	return fieldTags, statusTags
}

func isFieldTag(name string) bool {
	for _, t := range FieldTags {
		if t == name {
			return true
		}
	}
	return false
}
