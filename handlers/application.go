package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"sosgog-storefront/dtos"
	"sosgog-storefront/firebase"
	"sosgog-storefront/messaging"
	"sosgog-storefront/models"
	"sosgog-storefront/onboarding"
	"sosgog-storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationHandler struct {
	DB        *gorm.DB
	Storage   firebase.StorageClient
	Publisher messaging.Publisher
	Queue     string
}

func applicationFromForm(f onboarding.Form) models.DesignerApplication {
	return models.DesignerApplication{
		FullName:                    f.FullName,
		BusinessName:                f.BusinessName,
		Email:                       f.Email,
		Phone:                       f.Phone,
		Website:                     f.Website,
		SocialInsta:                 f.SocialInsta,
		SocialFb:                    f.SocialFb,
		Address:                     f.Address,
		Country:                     f.Country,
		ProductTypes:                f.ProductTypes,
		ProductTypesOthers:          f.ProductTypesOthers,
		TargetAudience:              f.TargetAudience,
		YearsInBusiness:             f.YearsInBusiness,
		BriefBusinessDescription:    f.BriefBusinessDescription,
		CategoriesProducts:          f.CategoriesProducts,
		PriceRange:                  f.PriceRange,
		MaterialsUsed:               f.MaterialsUsed,
		SustainabilityPractices:     f.SustainabilityPractices,
		USP:                         f.USP,
		CertificationsAwards:        f.CertificationsAwards,
		PreferredCollaborationTypes: f.PreferredCollaborationTypes,
		PreferredMarket:             f.PreferredMarket,
		Availability:                f.Availability,
		LogisticsShipping:           f.LogisticsShipping,
		BusinessRegNumber:           f.BusinessRegNumber,
		TaxNumber:                   f.TaxNumber,
		BankingInfo:                 f.BankingInfo,
		IPDetails:                   f.IPDetails,
		Inspiration:                 f.Inspiration,
		Expectations:                f.Expectations,
		Agreement:                   f.Agreement,
		Signature:                   f.Signature,
		SignatureDate:               f.SignatureDate,
	}
}

// ValidateStep checks one step of the form so the client can gate the Next
// button.
func (h *ApplicationHandler) ValidateStep(c *gin.Context) {
	step, err := strconv.Atoi(c.Query("step"))
	if err != nil || !onboarding.ValidStep(step) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("step must be between 1 and %d", onboarding.TotalSteps)})
		return
	}

	var form onboarding.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	errs := onboarding.ValidateStep(step, form)
	c.JSON(http.StatusOK, gin.H{
		"step":   step,
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

func (h *ApplicationHandler) Submit(c *gin.Context) {
	var form onboarding.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if errs := onboarding.ValidateAll(form); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please correct the highlighted fields", "fields": errs})
		return
	}

	app := applicationFromForm(form)
	if err := h.DB.Create(&app).Error; err != nil {
		log.Printf("Failed to save designer application for %s: %v", form.BusinessName, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
		return
	}

	h.publishSubmitted(c.Request.Context(), app)
	utils.SendApplicationReceived(app.Email, app.FullName, app.BusinessName)

	c.JSON(http.StatusCreated, gin.H{
		"application": app,
		"folder":      onboarding.FolderName(form),
	})
}

func (h *ApplicationHandler) publishSubmitted(ctx context.Context, app models.DesignerApplication) {
	if h.Publisher == nil {
		return
	}
	event := dtos.ApplicationSubmittedEvent{
		Event:         dtos.EventApplicationSubmitted,
		ApplicationID: app.ID,
		BusinessName:  app.BusinessName,
		Email:         app.Email,
		Country:       app.Country,
		SubmittedAt:   time.Now().UTC(),
	}
	if err := h.Publisher.Publish(ctx, h.Queue, event); err != nil {
		log.Printf("Failed to publish %s for application %s: %v", dtos.EventApplicationSubmitted, app.ID, err)
	}
}

// UploadAttachments stores the step 6 documents in the application's
// folder. Each slot is optional, but at least one file must be sent.
func (h *ApplicationHandler) UploadAttachments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	var app models.DesignerApplication
	if err := h.DB.Where("id = ?", id).First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if app.Status != models.ApplicationPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Application has already been reviewed"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	for name := range form.File {
		if !onboarding.IsAttachmentField(name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown attachment field: %s", name)})
			return
		}
	}

	folder := onboarding.FolderName(onboarding.Form{BusinessName: app.BusinessName})
	ctx := c.Request.Context()

	var saved []models.ApplicationAttachment
	for _, field := range onboarding.AttachmentFields {
		fileHeader, err := c.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
			return
		}
		if err := utils.ValidateAttachmentUpload(fileHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s: %s", field, err.Error())})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}
		contentType := fileHeader.Header.Get("Content-Type")
		url, err := h.Storage.UploadApplicationFile(ctx, folder, field, file, fileHeader.Filename, contentType)
		file.Close()
		if err != nil {
			log.Printf("Failed to upload %s for application %s: %v", field, app.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload files"})
			return
		}

		attachment := models.ApplicationAttachment{
			ApplicationID: app.ID,
			Kind:          field,
			FileName:      fileHeader.Filename,
			ContentType:   contentType,
			Size:          fileHeader.Size,
			URL:           url,
		}
		if err := h.DB.Create(&attachment).Error; err != nil {
			log.Printf("Failed to record %s for application %s: %v", field, app.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload files"})
			return
		}
		saved = append(saved, attachment)
	}

	if len(saved) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"attachments": saved})
}

func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	page, limit, offset := paginate(c)

	query := h.DB.Model(&models.DesignerApplication{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(business_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", like, like)
	}

	var total int64
	query.Count(&total)

	var apps []models.DesignerApplication
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"total":        total,
		"page":         page,
		"limit":        limit,
		"pages":        pages(total, limit),
	})
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	var app models.DesignerApplication
	if err := h.DB.Preload("Attachments").Where("id = ?", id).First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) UpdateApplicationStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	var req struct {
		Status models.ApplicationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if !models.IsValidApplicationStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid status '%s'", req.Status)})
		return
	}

	var app models.DesignerApplication
	if err := h.DB.Where("id = ?", id).First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if app.Status == req.Status {
		c.JSON(http.StatusOK, app)
		return
	}

	if err := h.DB.Model(&app).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}
	app.Status = req.Status

	if req.Status != models.ApplicationPending {
		utils.SendApplicationDecision(app.Email, app.FullName, app.BusinessName, string(req.Status))
	}

	c.JSON(http.StatusOK, app)
}
