package status

import (
	"slices"
	"strings"
)

// Colors are tview color names.
const (
	ColorGray   = "gray"
	ColorYellow = "yellow"
	ColorBlue   = "blue"
	ColorTeal   = "teal"
	ColorGreen  = "green"
	ColorOrange = "orange"
	ColorRed    = "red"
)

// fallback is used when the backend registry is unavailable or does not
// know a key.
var fallback = map[string]map[string]Entry{
	"orders": {
		"pending":    {Key: "pending", Label: "Chờ xử lý", Color: ColorYellow},
		"in_transit": {Key: "in_transit", Label: "Đang vận chuyển", Color: ColorBlue},
		"completed":  {Key: "completed", Label: "Hoàn thành", Color: ColorGreen},
		"canceled":   {Key: "canceled", Label: "Đã hủy", Color: ColorRed},
	},
	"trips": {
		"not_started": {Key: "not_started", Label: "Chưa bắt đầu", Color: ColorGray},
		"in_progress": {Key: "in_progress", Label: "Đang thực hiện", Color: ColorBlue},
		"loading":     {Key: "loading", Label: "Đang lấy hàng", Color: ColorTeal},
		"unloading":   {Key: "unloading", Label: "Đang hạ hàng", Color: ColorTeal},
		"delivering":  {Key: "delivering", Label: "Đang giao hàng", Color: ColorBlue},
		"completed":   {Key: "completed", Label: "Hoàn thành", Color: ColorGreen},
		"canceled":    {Key: "canceled", Label: "Đã hủy", Color: ColorRed},
		"delaying":    {Key: "delaying", Label: "Đang trễ", Color: ColorOrange},
	},
	"incidents": {
		"pending":    {Key: "pending", Label: "Chờ xử lý", Color: ColorYellow},
		"processing": {Key: "processing", Label: "Đang xử lý", Color: ColorBlue},
		"resolved":   {Key: "resolved", Label: "Đã xử lý", Color: ColorGreen},
	},
	"customers": {
		"active":   {Key: "active", Label: "Đang hoạt động", Color: ColorGreen},
		"inactive": {Key: "inactive", Label: "Ngừng hoạt động", Color: ColorGray},
	},
	"trailers": {
		"available":   {Key: "available", Label: "Sẵn sàng", Color: ColorGreen},
		"in_use":      {Key: "in_use", Label: "Đang sử dụng", Color: ColorBlue},
		"maintenance": {Key: "maintenance", Label: "Bảo trì", Color: ColorOrange},
	},
	"contracts": {
		"draft":      {Key: "draft", Label: "Nháp", Color: ColorGray},
		"active":     {Key: "active", Label: "Hiệu lực", Color: ColorGreen},
		"expired":    {Key: "expired", Label: "Hết hạn", Color: ColorOrange},
		"terminated": {Key: "terminated", Label: "Đã chấm dứt", Color: ColorRed},
	},
}

// Fallback returns the built-in entries for entity, ordered by key.
func Fallback(entity string) []Entry {
	table := fallback[entity]
	out := make([]Entry, 0, len(table))
	for _, e := range table {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Key, b.Key) })

	return out
}
