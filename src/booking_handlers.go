package main

import (
	"errors"
	"log"
	"net/http"

	"mixlab/src/common"
	"mixlab/src/config"
	"mixlab/src/db"
	"mixlab/src/middlewares"
	"mixlab/src/models"
	"mixlab/src/types"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings/create-initial", func(ctx *gin.Context) {
			var body types.CreateInitialBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": body})
		}).
		GET("/bookings/user-data", middlewares.AuthMiddleware, func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var user models.User
			if err := db.
				Model(&models.User{}).
				Where(&models.User{ID: userId}).
				First(&user).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"name":        user.FirstName + " " + user.LastName,
				"email":       user.Email,
				"birthday":    user.Birthday,
				"contact":     user.Contact,
				"homeAddress": user.HomeAddress,
			}})
		}).
		POST("/bookings/create", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var userID *uint
			if id := ctx.GetUint("id"); id > 0 {
				userID = &id
			}
			result, err := common.CreateBooking(ctx, &body, userID)
			if err != nil {
				log.Printf("Error creating booking: %s\n", err.Error())
				switch {
				case errors.Is(err, common.ErrInvalidInput):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				case errors.Is(err, common.ErrSlotConflict):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				case errors.Is(err, common.ErrUpstreamPayment):
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"bookingId":     result.Booking.BookingID,
				"amount":        result.Booking.Amount,
				"paymentStatus": result.Booking.PaymentStatus,
				"paymentUrl":    result.PaymentURL,
				"qrCode":        result.QRDataURL,
			}})
		}).
		GET("/bookings/available-slots", func(ctx *gin.Context) {
			var query types.AvailableSlotsRequestQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if query.Hours == 0 {
				query.Hours = config.MIN_BOOKING_HOURS
			}
			slots, err := common.AvailableSlots(query.Date, query.Hours)
			if err != nil {
				log.Printf("Error computing slots: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
		}).
		GET("/bookings/:bookingId", func(ctx *gin.Context) {
			bookingId := ctx.Params.ByName("bookingId")
			booking, err := common.GetBooking(bookingId)
			if err != nil {
				if errors.Is(err, common.ErrBookingNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings/update-payment", func(ctx *gin.Context) {
			var body types.UpdatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if types.PaymentStatus(body.PaymentStatus) == types.PAYMENT_PAID {
				if err := common.ApplyPaymentPaid(body.BookingID, "", body.XenditPaymentID); err != nil {
					if errors.Is(err, common.ErrBookingNotFound) {
						ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
						return
					}
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
					return
				}
			} else {
				db := db.GetDb()
				tx := db.
					Model(&models.Booking{}).
					Where(&models.Booking{BookingID: body.BookingID}).
					Update("payment_status", body.PaymentStatus)
				if tx.Error != nil {
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": tx.Error.Error()})
					return
				}
				if tx.RowsAffected == 0 {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"bookingId": body.BookingID, "paymentStatus": body.PaymentStatus}})
		})
	return g
}
