package aggregate

import "hash/fnv"

// palette is the fixed set of chart colors. Categories hash into it so the
// same name always renders the same color across sessions and reloads.
var palette = []string{
	"#7D56F4", // violet
	"#04B575", // green
	"#F7DC6F", // yellow
	"#FF6B6B", // red
	"#4A90E2", // blue
	"#F2994A", // orange
	"#56CCF2", // sky
	"#BB6BD9", // purple
	"#6FCF97", // mint
	"#EB5757", // coral
}

// CategoryColor returns the deterministic chart color for a category name.
func CategoryColor(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return palette[h.Sum32()%uint32(len(palette))]
}
