package models

// UsageStat is one day of dispatch counts. Date is a short "Jan 5" style
// string and is compared by string equality.
type UsageStat struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// HostStats is a point-in-time snapshot of the machine running the panel.
type HostStats struct {
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryPercent float64 `json:"memoryPercent"`
	MemoryUsedMB  uint64  `json:"memoryUsedMB"`
	MemoryTotalMB uint64  `json:"memoryTotalMB"`
	UptimeSeconds uint64  `json:"uptimeSeconds"`
}
