package templates

import (
	"sales-dashboard/internal/config"
)

// SettingsSignals maps settings to the signal names bound by the Settings
// form.
func SettingsSignals(s config.DashboardSettings) map[string]any {
	return map[string]any{
		"theme":          s.Theme,
		"layout":         s.Layout,
		"sidebarState":   s.SidebarState,
		"autoUpdate":     s.AutoUpdate,
		"updateInterval": s.UpdateIntervalMinutes,
		"notifications":  s.Notifications,
		"dataSource":     s.DataSource,
		"dataCache":      s.DataCache,
		"cacheMinutes":   s.CacheMinutes,
		"dateFormat":     s.DateFormat,
		"timezone":       s.Timezone,
		"language":       s.Language,
		"userName":       s.UserName,
		"email":          s.Email,
		"company":        s.Company,
		"role":           s.Role,
		"department":     s.Department,
		"accessLevel":    s.AccessLevel,
	}
}
