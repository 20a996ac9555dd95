package utils

import (
	"fmt"
	"os"
	"strconv"

	"bootcamp-assistant/internal/models"
)

// LedgerPolicyFromEnv reads PENALTY_AMOUNT, STREAK_SAME_DAY_GUARD, SKILL_GROWTH
// and PENALTY_ONCE_PER_DAY on top of the defaults.
func LedgerPolicyFromEnv() (models.LedgerPolicy, error) {
	policy := models.DefaultLedgerPolicy()

	if v := os.Getenv("PENALTY_AMOUNT"); v != "" {
		amount, err := strconv.ParseInt(v, 10, 64)
		if err != nil || amount < 0 {
			return policy, fmt.Errorf("PENALTY_AMOUNT must be a non-negative integer, got %q", v)
		}
		policy.PenaltyAmount = amount
	}

	var err error
	if policy.SameDayGuard, err = boolEnv("STREAK_SAME_DAY_GUARD", policy.SameDayGuard); err != nil {
		return policy, err
	}
	if policy.SkillGrowth, err = boolEnv("SKILL_GROWTH", policy.SkillGrowth); err != nil {
		return policy, err
	}
	if policy.PenaltyOncePerDay, err = boolEnv("PENALTY_ONCE_PER_DAY", policy.PenaltyOncePerDay); err != nil {
		return policy, err
	}
	return policy, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

// EnvOrDefault returns the variable's value, or fallback when it is unset.
func EnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
