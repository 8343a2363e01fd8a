package config

type MapsConfig struct {
	GoogleAPIKey     string `yaml:"google_api_key"`
	NominatimBaseURL string `yaml:"nominatim_base_url"`
	OSRMBaseURL      string `yaml:"osrm_base_url"`
}

func loadMapsConfig() *MapsConfig {
	return &MapsConfig{
		GoogleAPIKey:     getEnv("GOOGLE_MAPS_API_KEY", ""),
		NominatimBaseURL: getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		OSRMBaseURL:      getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
	}
}
