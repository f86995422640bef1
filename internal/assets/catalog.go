package assets

import "strings"

// PresetSize is a named phone resolution in device pixels.
type PresetSize struct {
	Name   string
	Label  string
	Width  int
	Height int
}

var PresetSizes = []PresetSize{
	{Name: "iphone-15-pro", Label: "iPhone 15/14 Pro (1179×2556)", Width: 1179, Height: 2556},
	{Name: "iphone-15", Label: "iPhone 15/14 (1170×2532)", Width: 1170, Height: 2532},
	{Name: "galaxy-s24", Label: "Galaxy S24 (1080×2340)", Width: 1080, Height: 2340},
	{Name: "pixel-8", Label: "Pixel 8 (1080×2400)", Width: 1080, Height: 2400},
	{Name: "2k-tall", Label: "2K Tall (1440×3200)", Width: 1440, Height: 3200},
}

// CustomSize is the size offered when no preset is chosen.
var CustomSize = PresetSize{Name: "custom", Label: "Custom", Width: 1242, Height: 2688}

// LookupPreset finds a preset by name, case-insensitively.
func LookupPreset(name string) (PresetSize, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == CustomSize.Name {
		return CustomSize, true
	}
	for _, p := range PresetSizes {
		if p.Name == name {
			return p, true
		}
	}
	return PresetSize{}, false
}

// Palette is a gradient pair plus the text color that reads well on it.
type Palette struct {
	A, B string
	Text string
}

var Palettes = []Palette{
	{A: "#FFE6E0", B: "#FFD2A4", Text: "#0B1220"},
	{A: "#EAF4F2", B: "#D5EAE4", Text: "#0B1220"},
	{A: "#E9F2FF", B: "#CFE0FF", Text: "#0B1020"},
	{A: "#F1EAFF", B: "#E4D6FF", Text: "#0B1020"},
	{A: "#F7F4EF", B: "#EAE4DB", Text: "#0B1220"},
	{A: "#FFE6EE", B: "#FFD3E3", Text: "#0B1220"},
	{A: "#EFFFF8", B: "#D9F3EC", Text: "#0B1220"},
	{A: "#0F172A", B: "#111827", Text: "#FFFFFF"},
	{A: "#FFF3D6", B: "#FBD1A7", Text: "#0B1220"},
	{A: "#DFF3FF", B: "#BFE4FF", Text: "#0B1220"},
}

var Prompts = []string{
	"오늘도 충분히 잘하고 있어요.",
	"자신의 꿈을 믿으세요.",
	"오늘 하루도 너무 수고했어",
	"나는 할 수 있어요. 진짜 해낼 수 있어요.",
	"괜찮아, 잠시 쉬어가도 돼.",
	"지금 너무너무 잘하고 있어.",
	"내가 얼마나 대단한지 절대 잊지말자",
	"나는 매일 조금 더 단단해진다.",
	"다른 사람이 나의 이야기를 대신 쓰게 만들지 마세요. 내 인생의 작가는 나입니다.",
	"우리는 완벽하지 않으며, 완벽하지 않은것이 당연해.",
}
