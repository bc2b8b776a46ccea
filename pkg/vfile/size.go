package vfile

import "strconv"

var sizeUnits = []string{"B", "kB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// Bytes returns the byte length of the value, or 0 for dry files.
func (f *File) Bytes() int {
	if f.Dry {
		return 0
	}
	return len(f.Value)
}

// Size returns Bytes in binary units, e.g. "11B" or "1.5kB".
func (f *File) Size() string {
	if f.Dry {
		return "0B"
	}
	return FormatSize(f.Bytes())
}

// FormatSize divides n by 1024 until it drops below 1024 and prints it with
// no decimals in bytes and one decimal in larger units.
func FormatSize(n int) string {
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	prec := 1
	if i == 0 {
		prec = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64) + sizeUnits[i]
}
