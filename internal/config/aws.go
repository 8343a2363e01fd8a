package config

type AWSConfig struct {
	Region                 string `yaml:"region"`
	RouteAssignmentQueue   string `yaml:"route_assignment_queue"`
	InvoiceGenerationQueue string `yaml:"invoice_generation_queue"`
	PlaceIndexName         string `yaml:"place_index_name"`
	RouteCalculatorName    string `yaml:"route_calculator_name"`
	SNSTopicARN            string `yaml:"sns_topic_arn"`
}

func loadAWSConfig() *AWSConfig {
	return &AWSConfig{
		Region:                 getEnv("AWS_REGION", "us-east-1"),
		RouteAssignmentQueue:   getEnv("SQS_ROUTE_ASSIGNMENT_QUEUE_URL", ""),
		InvoiceGenerationQueue: getEnv("SQS_INVOICE_GENERATION_QUEUE_URL", ""),
		PlaceIndexName:         getEnv("AWS_LOCATION_PLACE_INDEX", "BWayPlaceIndex"),
		RouteCalculatorName:    getEnv("AWS_LOCATION_ROUTE_CALCULATOR", "BWayRouteCalculator"),
		SNSTopicARN:            getEnv("SNS_EVENTS_TOPIC_ARN", ""),
	}
}
