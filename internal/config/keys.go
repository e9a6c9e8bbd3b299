package config

import "fmt"

type KeyStruct struct {
	// PayrollQueue is the Redis list consumed by the payroll worker.
	PayrollQueue string
}

// UserSessionKey returns the Redis key holding the active JWT ID for a user.
func (k *KeyStruct) UserSessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

var Key = &KeyStruct{
	PayrollQueue: "payroll_process_queue",
}
