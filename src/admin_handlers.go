package main

import (
	"log"
	"net/http"
	"strconv"

	"mixlab/src/common"
	"mixlab/src/db"
	"mixlab/src/models"
	"mixlab/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/appointments/slots", func(ctx *gin.Context) {
			date := ctx.Query("date")
			if date == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
				return
			}
			var instructorId *uint
			if raw := ctx.Query("instructor_id"); raw != "" {
				atoi, err := strconv.Atoi(raw)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				id := uint(atoi)
				instructorId = &id
			}
			available, booked, err := common.HourlySlotView(date, instructorId)
			if err != nil {
				log.Printf("Error computing slot view: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"date":      date,
				"available": available,
				"booked":    booked,
			}})
		}).
		POST("/appointments", func(ctx *gin.Context) {
			var body types.CreateAppointmentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			appointment, err := common.CreateAppointment(&body)
			if err != nil {
				log.Printf("Error creating appointment: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": appointment})
		}).
		GET("/notifications", func(ctx *gin.Context) {
			limit := 50
			if raw := ctx.Query("limit"); raw != "" {
				if atoi, err := strconv.Atoi(raw); err == nil && atoi > 0 && atoi <= 200 {
					limit = atoi
				}
			}
			db := db.GetDb()
			var notifications []models.Notification
			if err := db.
				Model(&models.Notification{}).
				Where("user_id IS NULL").
				Order("created_at desc").
				Limit(limit).
				Find(&notifications).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			var unread int64
			if err := db.
				Model(&models.Notification{}).
				Where("user_id IS NULL AND is_read = ?", false).
				Count(&unread).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notifications, "count": len(notifications), "unread": unread})
		}).
		PUT("/notifications/:id/read", func(ctx *gin.Context) {
			id, err := uuid.Parse(ctx.Params.ByName("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			tx := db.
				Model(&models.Notification{}).
				Where(&models.Notification{ID: id}).
				Update("is_read", true)
			if tx.Error != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": tx.Error.Error()})
				return
			}
			if tx.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "is_read": true}})
		}).
		PUT("/notifications/read-all", func(ctx *gin.Context) {
			db := db.GetDb()
			tx := db.
				Model(&models.Notification{}).
				Where("user_id IS NULL AND is_read = ?", false).
				Update("is_read", true)
			if tx.Error != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": tx.Error.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": tx.RowsAffected}})
		})
	return g
}
