package domain

// advisories maps each risk level to the recommended actions attached to a
// result. Ordered from routine monitoring up to evacuation.
var advisories = map[RiskLevel][]string{
	RiskVeryLow: {
		"Continue normal monitoring",
		"Review historical data periodically",
	},
	RiskLow: {
		"Increase monitoring frequency",
		"Check drainage systems",
		"Monitor weather forecasts",
	},
	RiskModerate: {
		"Alert local authorities",
		"Prepare evacuation routes",
		"Increase monitoring to hourly intervals",
		"Restrict access to vulnerable areas",
	},
	RiskHigh: {
		"Issue evacuation advisory",
		"Mobilize emergency services",
		"Continuous real-time monitoring",
		"Close roads in high-risk zones",
		"Activate emergency shelters",
	},
	RiskSevere: {
		"Immediate evacuation required",
		"Deploy rescue teams",
		"Establish emergency command center",
		"Block all access to danger zones",
		"Activate disaster response protocols",
	},
}

// AdvisoriesFor returns the recommended actions for a risk level.
func AdvisoriesFor(level RiskLevel) []string {
	return advisories[level]
}
