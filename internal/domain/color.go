package domain

import "hash/fnv"

// cursorPalette holds the display colors assignable to collaborator cursors.
var cursorPalette = []string{
	"#e6194b",
	"#3cb44b",
	"#ffe119",
	"#4363d8",
	"#f58231",
	"#911eb4",
	"#46f0f0",
	"#f032e6",
	"#bcf60c",
	"#008080",
}

// UserColor derives a stable display color for a user. The same user id
// always maps to the same palette entry.
func UserColor(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return cursorPalette[h.Sum32()%uint32(len(cursorPalette))]
}
