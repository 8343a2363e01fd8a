package config

import "time"

type WorkerConfig struct {
	PollInterval        time.Duration `yaml:"poll_interval"`
	ErrorBackoff        time.Duration `yaml:"error_backoff"`
	MaxMessages         int           `yaml:"max_messages"`
	MaxRetries          int           `yaml:"max_retries"`
	RequeueDelay        time.Duration `yaml:"requeue_delay"`
	ShutdownGrace       time.Duration `yaml:"shutdown_grace"`
	StaticPickupAddress string        `yaml:"static_pickup_address"`
}

func loadWorkerConfig() *WorkerConfig {
	return &WorkerConfig{
		PollInterval:        getEnvAsDuration("WORKER_POLL_INTERVAL", 5*time.Second),
		ErrorBackoff:        getEnvAsDuration("WORKER_ERROR_BACKOFF", 10*time.Second),
		MaxMessages:         getEnvAsInt("WORKER_MAX_MESSAGES", 10),
		MaxRetries:          getEnvAsInt("WORKER_MAX_RETRIES", 3),
		RequeueDelay:        getEnvAsDuration("WORKER_REQUEUE_DELAY", 30*time.Second),
		ShutdownGrace:       getEnvAsDuration("WORKER_SHUTDOWN_GRACE", 5*time.Second),
		StaticPickupAddress: getEnv("STATIC_PICKUP_ADDRESS", "160 W Forest Ave, Englewood, NJ 07631"),
	}
}
