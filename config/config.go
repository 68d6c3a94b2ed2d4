package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
		Enabled  bool   `mapstructure:"enabled"`
	} `mapstructure:"redis"`
	ATM struct {
		CashCapacity         int64   `mapstructure:"cash_capacity"`
		DailyWithdrawalLimit int64   `mapstructure:"daily_withdrawal_limit"`
		FastCashOptions      []int64 `mapstructure:"fast_cash_options"`
		MiniStatementCount   int     `mapstructure:"mini_statement_count"`
		PinScheme            string  `mapstructure:"pin_scheme"`
	} `mapstructure:"atm"`
	Audit struct {
		LogFile string `mapstructure:"log_file"`
	} `mapstructure:"audit"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("atm.cash_capacity", 200000)
	viper.SetDefault("atm.daily_withdrawal_limit", 50000)
	viper.SetDefault("atm.fast_cash_options", []int64{500, 1000, 5000})
	viper.SetDefault("atm.mini_statement_count", 5)
	viper.SetDefault("atm.pin_scheme", "plain")
	viper.SetDefault("audit.log_file", "transactions.log")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
