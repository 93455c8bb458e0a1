package services

import (
	"fmt"
	"time"
)

// applicationNumberAttempts bounds the search for a free daily sequence slot.
const applicationNumberAttempts = 1000

// NextApplicationNumber assigns the next free BSA-YYYYMMDD-XXXX number for the
// day. The daily count alone is not enough: a deletion lowers the count while
// higher numbers stay taken, so every candidate is checked against existing
// rows. Call inside the transaction that inserts the application; the unique
// column on application_number backstops concurrent creates.
func NextApplicationNumber(tx Store, now time.Time) (string, error) {
	count, err := tx.CountApplicationsOn(now)
	if err != nil {
		return "", err
	}
	day := now.Format("20060102")
	for offset := int64(0); offset < applicationNumberAttempts; offset++ {
		candidate := fmt.Sprintf("BSA-%s-%04d", day, count+1+offset)
		existing, err := tx.FindApplicationByNumber(candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free application number for %s", day)
}
