package construction

// labelAlphabet is the fixed sequence display labels are drawn from.
const labelAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// labelFor maps a label counter value to a display label: A..Z, then
// AA, AB, ... (spreadsheet-column style). Constructions rarely get past
// the first few letters, but the mapping must stay total.
func labelFor(i int) string {
	n := len(labelAlphabet)
	if i < n {
		return string(labelAlphabet[i])
	}
	var buf []byte
	for i >= 0 {
		buf = append([]byte{labelAlphabet[i%n]}, buf...)
		i = i/n - 1
	}
	return string(buf)
}
