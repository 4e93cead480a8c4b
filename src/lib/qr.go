package lib

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"mixlab/src/utils"

	"github.com/yeqown/go-qrcode"
)

// BookingQR is the check-in artifact: an image on disk plus an
// embeddable data URL stored alongside the reservation.
type BookingQR struct {
	Path    string
	DataURL string
}

// GenerateBookingQR renders the check-in QR for a booking. The payload
// is AES-GCM encrypted so the code is opaque to anyone but the check-in
// scanner. The data URL is cached in redis keyed by the booking id.
func GenerateBookingQR(payload map[string]any, correlationID string) (*BookingQR, error) {
	rawBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	keyEnv := os.Getenv("API_QRC_SECRET")
	key, err := hex.DecodeString(keyEnv)
	if err != nil {
		log.Printf("Could not read key from string: %s\n", err.Error())
		return nil, err
	}
	encryptedMessage, err := utils.EncryptMessage(key, string(rawBytes))
	if err != nil {
		log.Printf("Error encrypting message: %s\n", err.Error())
		return nil, err
	}

	qrc, err := qrcode.New(encryptedMessage)
	if err != nil {
		return nil, err
	}
	tempdir := os.Getenv("TEMP_DIR")
	filepath := path.Join(tempdir, fmt.Sprintf("%s.jpeg", correlationID))
	if err := qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return nil, err
	}

	img, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img)

	if rd := GetRedisClient(); rd != nil {
		rd.SetEx(context.Background(), fmt.Sprintf("qr:%s", correlationID), dataURL, 2*time.Hour)
	}

	return &BookingQR{Path: filepath, DataURL: dataURL}, nil
}
