package templates

import (
	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/services"
)

type navItem struct {
	page  services.Page
	href  string
	label string
}

var navigation = []navItem{
	{services.PageOverview, "/", "Overview"},
	{services.PageAnalytics, "/analytics", "Analytics"},
	{services.PageKPIs, "/kpis", "KPIs"},
	{services.PageSettings, "/settings", "Settings"},
}

// pick returns the charts with the given IDs in that order. Unknown IDs are
// skipped.
func pick(cs []charts.Chart, ids ...string) []charts.Chart {
	var out []charts.Chart
	for _, id := range ids {
		for _, c := range cs {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out
}

const stylesheet = `
*{box-sizing:border-box}
body{margin:0;font-family:system-ui,sans-serif;display:grid;grid-template-columns:220px 1fr;grid-template-rows:1fr auto;min-height:100vh;background:#f8fafc;color:#0f172a}
body.sidebar-collapsed{grid-template-columns:64px 1fr}
body.sidebar-collapsed .brand-sub,body.sidebar-collapsed nav a{font-size:0}
body.theme-dark{background:#0f172a;color:#e2e8f0}
body.theme-dark .metric-card,body.theme-dark .chart,body.theme-dark table{background:#1e293b}
body.layout-centered main{max-width:1100px;margin:0 auto}
.sidebar{grid-row:1/3;background:#1e1b4b;color:#fff;padding:1rem}
.brand{font-weight:700;font-size:1.2rem}
.brand-sub{opacity:.7;margin-bottom:1rem}
nav a{display:block;color:#c7d2fe;padding:.5rem;border-radius:6px;text-decoration:none}
nav a.active{background:#4f46e5;color:#fff}
.refresh{margin-top:1rem;width:100%}
main{padding:1.5rem}
.metric-grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(180px,1fr));gap:1rem;margin-bottom:1.5rem}
.metric-card{background:#fff;border-radius:10px;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.metric-value{font-size:1.6rem;font-weight:700}
.metric-label{opacity:.7}
.metric-delta{color:#16a34a;font-size:.9rem}
.chart-grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(360px,1fr));gap:1rem}
.chart{background:#fff;margin:0;padding:.5rem;border-radius:10px}
.chart svg{max-width:100%;height:auto}
.filters{display:flex;flex-wrap:wrap;gap:1rem;margin-bottom:1rem}
table{border-collapse:collapse;background:#fff}
th,td{padding:.4rem .8rem;text-align:right;border-bottom:1px solid #e2e8f0}
th:first-child,td:first-child{text-align:left}
.empty{padding:2rem;text-align:center;opacity:.7}
.alert{padding:.75rem;border-radius:6px;margin-top:1rem}
.alert-success{background:#dcfce7}
.alert-info{background:#dbeafe}
.alert-warning{background:#fef3c7}
.settings-grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(260px,1fr));gap:.75rem}
.settings-grid label{display:flex;flex-direction:column;gap:.25rem}
.footer{grid-column:2;text-align:center;color:#666;padding:1rem;border-top:1px solid #e2e8f0}
`
