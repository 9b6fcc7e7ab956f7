// Package useragent 基于子串匹配的 User-Agent 分类
package useragent

import "strings"

const (
	BrowserChrome  = "Chrome"
	BrowserSafari  = "Safari"
	BrowserFirefox = "Firefox"
	BrowserEdge    = "Edge"
	BrowserOpera   = "Opera"

	OSWindows = "Windows"
	OSMac     = "macOS"
	OSLinux   = "Linux"
	OSAndroid = "Android"
	OSiOS     = "iOS"

	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"

	Other = "Other"
)

// Info 分类结果
type Info struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Device  string `json:"device"`
}

// rule 一条匹配规则：包含任一 any 且不包含任一 none
type rule struct {
	label string
	any   []string
	none  []string
}

func (r rule) match(ua string) bool {
	for _, s := range r.none {
		if strings.Contains(ua, s) {
			return false
		}
	}
	for _, s := range r.any {
		if strings.Contains(ua, s) {
			return true
		}
	}
	return false
}

// 规则按顺序匹配，先命中者生效
var (
	browserRules = []rule{
		{label: BrowserChrome, any: []string{"Chrome"}, none: []string{"Edg", "OPR", "Opera"}},
		{label: BrowserSafari, any: []string{"Safari"}, none: []string{"Chrome"}},
		{label: BrowserFirefox, any: []string{"Firefox"}},
		{label: BrowserEdge, any: []string{"Edg"}},
		{label: BrowserOpera, any: []string{"Opera", "OPR"}},
	}

	osRules = []rule{
		{label: OSWindows, any: []string{"Windows"}},
		{label: OSMac, any: []string{"Mac OS"}},
		{label: OSLinux, any: []string{"Linux"}},
		{label: OSAndroid, any: []string{"Android"}},
		{label: OSiOS, any: []string{"iOS", "iPhone", "iPad"}},
	}

	deviceRules = []rule{
		{label: DeviceMobile, any: []string{"Mobile", "Android", "iPhone"}},
		{label: DeviceTablet, any: []string{"Tablet", "iPad"}},
	}
)

// Classify 解析 User-Agent，任意输入都有结果
func Classify(ua string) Info {
	return Info{
		Browser: firstMatch(browserRules, ua, Other),
		OS:      firstMatch(osRules, ua, Other),
		Device:  firstMatch(deviceRules, ua, DeviceDesktop),
	}
}

func firstMatch(rules []rule, ua, fallback string) string {
	for _, r := range rules {
		if r.match(ua) {
			return r.label
		}
	}
	return fallback
}
