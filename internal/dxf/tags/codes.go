package tags

// Well-known group codes.
const (
	CodeStructure      = 0
	CodeText           = 1
	CodeName           = 2
	CodeHandle         = 5
	CodeLayer          = 8
	CodeX              = 10
	CodeCount          = 70
	CodeSubclassMarker = 100
	CodeEmbeddedObject = 101
	CodeAppData        = 102
	CodeDimStyleHandle = 105
	CodeOwner          = 330
	CodeComment        = 999
	CodeXDataAppID     = 1001
)

// codeRange maps an inclusive group code band to its wire kind.
type codeRange struct {
	lo, hi int
	kind   Kind
}

// Range table from the DXF reference. Point axes (10-18, 20-28, 30-37 and
// friends) are plain reals on the wire; a point is only a point once an
// attribute schema assembles its axes.
var codeRanges = []codeRange{
	{0, 4, KindText},
	{5, 5, KindHandle},
	{6, 9, KindText},
	{10, 59, KindReal},
	{60, 79, KindInt},
	{90, 99, KindInt},
	{100, 104, KindText},
	{105, 105, KindHandle},
	{110, 149, KindReal},
	{160, 179, KindInt},
	{210, 239, KindReal},
	{270, 289, KindInt},
	{290, 299, KindInt},
	{300, 309, KindText},
	{310, 319, KindBinary},
	{320, 369, KindHandle},
	{370, 389, KindInt},
	{390, 399, KindHandle},
	{400, 409, KindInt},
	{410, 419, KindText},
	{420, 429, KindInt},
	{430, 439, KindText},
	{440, 459, KindInt},
	{460, 469, KindReal},
	{470, 479, KindText},
	{480, 481, KindHandle},
	{999, 999, KindText},
	{1000, 1003, KindText},
	{1004, 1004, KindBinary},
	{1005, 1005, KindHandle},
	{1006, 1009, KindText},
	{1010, 1059, KindReal},
	{1060, 1071, KindInt},
}

// TypeOf returns the wire kind implied by a group code. Codes outside the
// table are carried as text.
func TypeOf(code int) Kind {
	for _, r := range codeRanges {
		if code < r.lo {
			break
		}
		if code <= r.hi {
			return r.kind
		}
	}
	return KindText
}

// IsPointCode reports whether code is the x axis of a point.
func IsPointCode(code int) bool {
	switch {
	case code >= 10 && code <= 18:
		return true
	case code >= 110 && code <= 112:
		return true
	case code == 210:
		return true
	case code >= 1010 && code <= 1013:
		return true
	}
	return false
}

// PointCodes returns the axis codes for a point whose x axis is code.
func PointCodes(code, dims int) []int {
	out := make([]int, dims)
	for i := range out {
		out[i] = code + 10*i
	}
	return out
}
