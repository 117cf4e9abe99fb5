package config

import "time"

type Config struct {
	Port             int    `mapstructure:"port"`
	LogLevel         string `mapstructure:"log_level"`
	LogFile          string `mapstructure:"log_file"`
	NATSURL          string `mapstructure:"nats_url"`
	RedisURL         string `mapstructure:"redis_url"`
	SweepIntervalSec int    `mapstructure:"sweep_interval_sec"`
	IdleTimeoutSec   int    `mapstructure:"idle_timeout_sec"`
	HistoryLimit     int    `mapstructure:"history_limit"`
	SnapshotLimit    int    `mapstructure:"snapshot_limit"`
}

func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSec) * time.Second
}
