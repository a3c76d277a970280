package repository

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a write violated a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}

	// Drivers opened without TranslateError still report constraint names in the message.
	message := strings.ToLower(err.Error())
	if strings.Contains(message, "unique constraint") || strings.Contains(message, "duplicate key") {
		return ErrDuplicate
	}

	return err
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case isMongoDuplicateKey(err):
		return ErrDuplicate
	}
	return err
}

const mongoDuplicateKeyCode = 11000

func isMongoDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, writeErr := range we.WriteErrors {
			if writeErr.Code == mongoDuplicateKeyCode {
				return true
			}
		}
	}
	// Bulk writes and server command errors report the code differently.
	return mongo.IsDuplicateKeyError(err)
}
