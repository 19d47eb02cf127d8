package textstat

import "strings"

// englishSample is 157 letters of ordinary prose, long enough for every
// statistic in this package to stabilize. IC ~1.94.
const englishSample = "IN THE MIDDLE OF THE NIGHT THE OLD CLOCK ON THE TOWER " +
	"STRUCK TWELVE AND EVERY PERSON IN THE LITTLE TOWN TURNED THEIR EYES " +
	"TOWARD THE SQUARE WHERE THE LANTERNS BURNED WITH A STEADY GOLDEN FLAME"

// caesarShift applies a fixed shift to the normalized text.
func caesarShift(text string, shift int) string {
	normalized := Normalize(text)
	var b strings.Builder
	b.Grow(len(normalized))
	for i := 0; i < len(normalized); i++ {
		b.WriteByte(byte((int(normalized[i]-'A')+shift)%26) + 'A')
	}
	return b.String()
}

// vigenereEncrypt applies a repeating-key shift to the normalized text.
func vigenereEncrypt(text, key string) string {
	normalized := Normalize(text)
	var b strings.Builder
	b.Grow(len(normalized))
	for i := 0; i < len(normalized); i++ {
		k := int(key[i%len(key)] - 'A')
		b.WriteByte(byte((int(normalized[i]-'A')+k)%26) + 'A')
	}
	return b.String()
}

// routeTranspose writes the normalized text into rows of the given width and
// reads it back out by columns.
func routeTranspose(text string, cols int) string {
	normalized := Normalize(text)
	var b strings.Builder
	b.Grow(len(normalized))
	for c := 0; c < cols; c++ {
		for i := c; i < len(normalized); i += cols {
			b.WriteByte(normalized[i])
		}
	}
	return b.String()
}
