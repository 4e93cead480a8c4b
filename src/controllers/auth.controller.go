package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"mixlab/src/db"
	"mixlab/src/models"
	"mixlab/src/types"
	"mixlab/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	var user models.User
	if err = db.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		First(&user).
		Error; err != nil {
		log.Printf("error: %s\n", err.Error())
		return nil, http.StatusUnauthorized, errors.New("invalid email or password")
	}
	if user.HashedPassword == nil || !utils.VerifyPassword(*user.HashedPassword, body.Password) {
		return nil, http.StatusUnauthorized, errors.New("invalid email or password")
	}

	jwt, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating token for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	return &jwt, http.StatusOK, nil
}

func AuthRegister(ctx *gin.Context) (uid *string, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	hashed, err := utils.HashPassword(body.Password)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	db := db.GetDb()
	newUser := models.User{
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		Email:          body.Email,
		UID:            uuid.NewString(),
		HashedPassword: &hashed,
	}
	if body.Birthday != "" {
		newUser.Birthday = &body.Birthday
	}
	if body.Contact != "" {
		newUser.Contact = &body.Contact
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.
			Model(&models.User{}).
			Select("id").
			Where("email = ?", body.Email).
			First(&existing).
			Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("could not complete transaction")
			}
		}
		if existing.ID > 0 {
			err := errors.New("email is already registered. Please proceed to Log In")
			log.Printf("error: %s\n", err.Error())
			return err
		}
		if err := tx.Create(&newUser).Error; err != nil {
			log.Printf("Error creating user: %s\n", err.Error())
			return fmt.Errorf("error creating user: %s", body.Email)
		}
		return nil
	})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return &newUser.UID, http.StatusOK, nil
}
