package domain

// FeatureVector is the flat numeric input consumed by the classifier scorer.
// Every field in FeatureNames is always present; missing upstream data is
// filled from the defaults table, never dropped.
type FeatureVector map[string]float64

// FeatureNames is the fixed schema of the classifier contract, in the order
// the model was trained with.
var FeatureNames = []string{
	"latitude",
	"longitude",
	"temperature",
	"humidity",
	"pressure",
	"wind_speed",
	"rainfall_24h",
	"rainfall_72h",
	"elevation",
	"slope",
	"earthquake_count",
	"max_earthquake_magnitude",
	"soil_moisture",
	"ndvi",
	"distance_to_fault",
	"population_density",
}

// featureDefault documents the fallback value for a feature and why that
// value was chosen. Defaults live here and nowhere else, so a missing
// upstream field can never break the classifier contract with an ad-hoc
// magic number.
type featureDefault struct {
	value     float64
	rationale string
}

var featureDefaults = map[string]featureDefault{
	"temperature":              {20.0, "global mean surface temperature, °C"},
	"humidity":                 {60.0, "mid-range relative humidity, %"},
	"pressure":                 {1013.25, "standard atmosphere, hPa"},
	"wind_speed":               {10.0, "light breeze, km/h"},
	"rainfall_24h":             {0.0, "assume dry when unknown; rain only raises risk"},
	"rainfall_72h":             {0.0, "assume dry when unknown"},
	"elevation":                {500.0, "continental median elevation, m"},
	"slope":                    {10.0, "gentle slope below all scoring thresholds, °"},
	"earthquake_count":         {0.0, "assume quiet when unknown"},
	"max_earthquake_magnitude": {0.0, "assume quiet when unknown"},

	// No live provider exists for these four; they are always defaulted.
	"soil_moisture":      {35.0, "temperate-zone mean volumetric soil moisture, %"},
	"ndvi":               {0.45, "mixed vegetation cover"},
	"distance_to_fault":  {5000.0, "median distance to a mapped fault, m"},
	"population_density": {300.0, "rural-to-suburban density, people/km²"},
}

// BuildFeatureVector assembles the classifier input from the gathered signal
// bundle and coordinate. It returns the vector plus the names of fields that
// were filled from defaults, for observability. The returned vector always
// contains every name in FeatureNames.
func BuildFeatureVector(c Coordinate, bundle RawSignalBundle) (FeatureVector, []string) {
	fv := FeatureVector{
		"latitude":  c.Latitude,
		"longitude": c.Longitude,
	}

	if w := bundle.Weather; w != nil {
		fv["temperature"] = w.Temperature
		fv["humidity"] = w.Humidity
		fv["pressure"] = w.Pressure
		fv["wind_speed"] = w.WindSpeed
		fv["rainfall_24h"] = w.Rainfall24h
		fv["rainfall_72h"] = w.Rainfall72h
	}
	if t := bundle.Terrain; t != nil {
		fv["elevation"] = t.Elevation
		fv["slope"] = t.SlopeDegrees
	}
	if s := bundle.Seismic; s != nil {
		fv["earthquake_count"] = float64(s.Count)
		fv["max_earthquake_magnitude"] = s.MaxMagnitude
	}

	var defaulted []string
	for _, name := range FeatureNames {
		if _, ok := fv[name]; ok {
			continue
		}
		fv[name] = featureDefaults[name].value
		// The four static fields have no provider and are defaulted on every
		// request; reporting them would only add noise.
		if !staticFeatures[name] {
			defaulted = append(defaulted, name)
		}
	}
	return fv, defaulted
}

var staticFeatures = map[string]bool{
	"soil_moisture":      true,
	"ndvi":               true,
	"distance_to_fault":  true,
	"population_density": true,
}
