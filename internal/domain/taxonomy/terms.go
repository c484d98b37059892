package taxonomy

// primaryTerms are high-precision hazard and specialty phrases, with the
// singular, plural and spelling variants seen in questions.
var primaryTerms = []string{
	// hazards
	"drought", "droughts",
	"flood", "floods", "flooding",
	"storm", "storms", "storm surge",
	"heat wave", "heat waves", "heatwave", "heatwaves",
	"earthquake", "earthquakes",
	"mudslide", "mudslides", "landslide", "landslides",
	"wildfire", "wildfires",
	"cyclone", "cyclones", "hurricane", "hurricanes",
	"multi-hazard", "multi hazard",

	// named specialties
	"carbon sequestration",
	"flood forecasting",
	"drought risk assessment",
	"disaster risk finance",
	"climate risk assessment",
	"climate change adaptation",
	"climate communication",
	"climate data analysis",
	"climate modeling", "climate modelling",
	"environmental economics",
	"environmental policy",
	"greenhouse gas emissions",
	"machine learning",
	"artificial intelligence",
	"data science",
	"statistical analysis",
	"computational modeling",
	"atmospheric science",
	"renewable energy",
	"anticipatory action",
	"early warning", "early warning systems",
	"remote sensing",
	"paleoclimatology",
	"oceanography",
	"hydrology",
	"meteorology",
	"geophysics",
	"epidemiology",
}

// secondaryTerms are broad topical words used only for soft overlap scoring.
var secondaryTerms = []string{
	"maize", "agriculture", "agricultural", "farming", "crop", "crops",
	"west africa", "africa", "sahel",
	"carbon", "sequestration", "emissions", "greenhouse gas", "co2",
	"adaptation", "mitigation", "resilience", "vulnerability",
	"early action", "preparedness",
	"climate", "weather", "temperature", "precipitation", "rainfall",
	"renewable", "energy", "solar", "wind", "hydro", "geothermal",
	"atmospheric", "air quality", "pollution", "aerosol",
	"ocean", "marine", "coastal", "sea level",
	"water", "river", "lake", "groundwater",
	"forecasting", "prediction", "modeling", "modelling",
	"ecology", "ecosystem", "biodiversity", "conservation",
	"environmental", "sustainability", "green", "natural",
	"policy", "governance", "regulation", "planning",
	"simulation", "computer", "algorithm",
	"data", "analysis", "statistics", "research",
	"risk", "assessment", "management", "monitoring",
	"communication", "education", "outreach", "public",
	"economics", "finance", "investment", "cost",
	"geology", "seismic", "tectonic",
	"historical", "proxy", "reconstruction",
	"remote", "sensing", "satellite", "gps", "gis",
	"development", "sustainable", "urban", "rural",
	"health", "public health",
	"transport", "mobility", "infrastructure",
	"forest", "deforestation", "afforestation",
	"soil", "erosion", "degradation", "fertility",
	"global warming", "digital tools", "technology", "innovation",
}
