package msg

// Category classifies the severity family of a message.
type Category uint8

const (
	CatFatal Category = iota
	CatError
	CatWarning
	CatRefactor
	CatConvention
	CatInfo
)

func (c Category) String() string {
	switch c {
	case CatFatal:
		return "fatal"
	case CatError:
		return "error"
	case CatWarning:
		return "warning"
	case CatRefactor:
		return "refactor"
	case CatConvention:
		return "convention"
	case CatInfo:
		return "info"
	}
	return "unknown"
}

// Letter returns the single-letter prefix used in message ids.
func (c Category) Letter() byte {
	switch c {
	case CatFatal:
		return 'F'
	case CatError:
		return 'E'
	case CatWarning:
		return 'W'
	case CatRefactor:
		return 'R'
	case CatConvention:
		return 'C'
	case CatInfo:
		return 'I'
	}
	return '?'
}

// ExitBit returns the category's bit in the process exit bitmask.
// Informational findings never contribute a bit.
func (c Category) ExitBit() int {
	switch c {
	case CatFatal:
		return 1
	case CatError:
		return 2
	case CatWarning:
		return 4
	case CatRefactor:
		return 8
	case CatConvention:
		return 16
	}
	return 0
}

// CategoryFromLetter resolves an id prefix letter to its category.
func CategoryFromLetter(b byte) (Category, bool) {
	switch b {
	case 'F':
		return CatFatal, true
	case 'E':
		return CatError, true
	case 'W':
		return CatWarning, true
	case 'R':
		return CatRefactor, true
	case 'C':
		return CatConvention, true
	case 'I':
		return CatInfo, true
	}
	return 0, false
}

// CategoryFromName resolves a category by its full name or letter, as written
// in config files and pragma target lists. Input must already be lower-cased.
func CategoryFromName(name string) (Category, bool) {
	switch name {
	case "fatal", "f":
		return CatFatal, true
	case "error", "e":
		return CatError, true
	case "warning", "w":
		return CatWarning, true
	case "refactor", "r":
		return CatRefactor, true
	case "convention", "c":
		return CatConvention, true
	case "info", "information", "i":
		return CatInfo, true
	}
	return 0, false
}

// Categories lists every category in severity order.
func Categories() []Category {
	return []Category{CatFatal, CatError, CatWarning, CatRefactor, CatConvention, CatInfo}
}
