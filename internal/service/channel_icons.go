package service

import "strings"

// ChannelIcon describes an icon the frontend ships for contact channels.
type ChannelIcon struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

const defaultChannelIcon = "default"

var channelIcons = []ChannelIcon{
	{Key: "email", Label: "Email"},
	{Key: "phone", Label: "Phone"},
	{Key: "whatsapp", Label: "WhatsApp"},
	{Key: "wechat", Label: "WeChat"},
	{Key: "telegram", Label: "Telegram"},
	{Key: "linkedin", Label: "LinkedIn"},
	{Key: "github", Label: "GitHub"},
	{Key: "x", Label: "X / Twitter"},
	{Key: "facebook", Label: "Facebook"},
	{Key: "instagram", Label: "Instagram"},
	{Key: "map", Label: "Address"},
	{Key: "website", Label: "Website"},
}

// 常见的平台别名
var channelIconAliases = map[string]string{
	"mail":     "email",
	"e-mail":   "email",
	"tel":      "phone",
	"mobile":   "phone",
	"twitter":  "x",
	"weixin":   "wechat",
	"address":  "map",
	"location": "map",
	"web":      "website",
	"site":     "website",
}

var channelIconLookup = func() map[string]struct{} {
	lookup := make(map[string]struct{}, len(channelIcons))
	for _, icon := range channelIcons {
		lookup[icon.Key] = struct{}{}
	}
	return lookup
}()

// ChannelIcons lists the selectable icons for the admin UI.
func ChannelIcons() []ChannelIcon {
	return append([]ChannelIcon(nil), channelIcons...)
}

// ChannelIconKey resolves an icon key from an explicit icon or the platform
// name, falling back to "default".
func ChannelIconKey(icon, platform string) string {
	for _, candidate := range []string{icon, platform} {
		key := strings.ToLower(strings.TrimSpace(candidate))
		if alias, ok := channelIconAliases[key]; ok {
			key = alias
		}
		if _, ok := channelIconLookup[key]; ok {
			return key
		}
	}
	return defaultChannelIcon
}
