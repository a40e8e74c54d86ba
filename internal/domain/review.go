package domain

// Review is a single review record. Every review belongs to exactly one user
// and is only visible to that owner. All fields except ID and Title are
// nullable; Created and Updated are caller-supplied opaque strings, not
// parsed timestamps.
type Review struct {
	ID           string  `json:"id"`
	UserID       string  `json:"-"`
	Title        string  `json:"title"`
	Type         *string `json:"type"`
	Category     *string `json:"category"`
	Rating       *int    `json:"rating"`
	Address      *string `json:"address"`
	Website      *string `json:"website"`
	Date         *string `json:"date"`
	Notes        *string `json:"notes"`
	PhotoDataURL *string `json:"photoDataUrl"`
	Created      *string `json:"created"`
	Updated      *string `json:"updated"`
}

// Less orders reviews for listing: updated descending, then created
// descending, with empty or absent values sorting last. The comparison is
// lexicographic on the raw strings, which is correct as long as producers
// emit a consistently sortable format.
func Less(a, b *Review) bool {
	if c := compareDesc(a.Updated, b.Updated); c != 0 {
		return c < 0
	}
	return compareDesc(a.Created, b.Created) < 0
}

// compareDesc compares two optional strings in descending order with
// empty/nil last. Returns a negative value when a sorts before b.
func compareDesc(a, b *string) int {
	av, bv := "", ""
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	switch {
	case av == "" && bv == "":
		return 0
	case av == "":
		return 1
	case bv == "":
		return -1
	case av > bv:
		return -1
	case av < bv:
		return 1
	default:
		return 0
	}
}
