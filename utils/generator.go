package utils

import (
	"math/rand"
	"time"

	"github.com/otienodev/course_market/models"
	"gorm.io/gorm"
)

const serialLength = 10
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueCertificateSerial returns a serial no issued certificate
// already carries. Serials are what the public verification endpoint
// looks certificates up by.
func GenerateUniqueCertificateSerial(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, serialLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		serial := string(b)

		var cert models.Certificate
		err := tx.Where("serial = ?", serial).First(&cert).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return serial, nil
			}
			return "", err
		}
	}
}
