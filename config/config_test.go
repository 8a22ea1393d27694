package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.BaseCapital != 10000 {
		t.Errorf("BaseCapital=%v", cfg.BaseCapital)
	}
	if cfg.MaxRiskPerTradePct != 2.0 {
		t.Errorf("MaxRiskPerTradePct=%v", cfg.MaxRiskPerTradePct)
	}
	if cfg.Lookback != 300 {
		t.Errorf("Lookback=%v", cfg.Lookback)
	}
	if got := cfg.ParseSymbols(); len(got) != 1 || got[0] != "BTC/USDT" {
		t.Errorf("ParseSymbols=%v", got)
	}
	if got := cfg.ParseKafkaBrokers(); got != nil && len(got) != 0 {
		t.Errorf("ParseKafkaBrokers=%v, want empty", got)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SYMBOLS", "BTC/USDT, ETH/USDT ,SOL/USDT")
	t.Setenv("TIMEFRAMES", "1h,4h")
	t.Setenv("BASE_CAPITAL", "50000")
	t.Setenv("LOOKBACK", "500")
	t.Setenv("LIVE_STREAM", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg := Load()

	if got := cfg.ParseSymbols(); len(got) != 3 || got[1] != "ETH/USDT" {
		t.Errorf("ParseSymbols=%v", got)
	}
	if got := cfg.ParseTimeframes(); len(got) != 2 || got[1] != "4h" {
		t.Errorf("ParseTimeframes=%v", got)
	}
	if cfg.BaseCapital != 50000 {
		t.Errorf("BaseCapital=%v", cfg.BaseCapital)
	}
	if cfg.Lookback != 500 {
		t.Errorf("Lookback=%v", cfg.Lookback)
	}
	if !cfg.LiveStream {
		t.Error("LiveStream should be true")
	}
	if got := cfg.ParseKafkaBrokers(); len(got) != 2 {
		t.Errorf("ParseKafkaBrokers=%v", got)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("BASE_CAPITAL", "lots")
	t.Setenv("LOOKBACK", "many")
	t.Setenv("LIVE_STREAM", "sometimes")

	cfg := Load()
	if cfg.BaseCapital != 10000 || cfg.Lookback != 300 || cfg.LiveStream {
		t.Errorf("invalid values did not fall back: capital=%v lookback=%v live=%v",
			cfg.BaseCapital, cfg.Lookback, cfg.LiveStream)
	}
}
