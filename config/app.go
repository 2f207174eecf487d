package config

import "time"

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	// Loan lifecycle knobs.
	HoldPickupDays int     `env:"HOLD_PICKUP_DAYS" default:"3"`
	MembershipFee  float64 `env:"MEMBERSHIP_FEE" default:"10.00"`

	// Expired-hold sweeper. When disabled, expired holds keep their
	// reserved unit until canceled by staff.
	SweepEnabled  bool          `env:"SWEEP_ENABLED" default:"true"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL_MIN" default:"10m"`
}

func (a App) PickupWindow() time.Duration {
	return time.Duration(a.HoldPickupDays) * 24 * time.Hour
}
