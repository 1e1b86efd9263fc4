package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/otienodev/course_market/configs"
	"github.com/otienodev/course_market/database"
	"github.com/otienodev/course_market/models"
	"github.com/otienodev/course_market/utils"
	"gorm.io/gorm"
)

// IssueCertificate renders a completion certificate for a purchased
// course, stores the PDF on Cloudinary and records it with a serial the
// public verification endpoint can look up. Idempotent per
// (user, course): a second request returns the existing certificate.
func IssueCertificate(userID, courseID uuid.UUID) (*models.Certificate, error) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if err := requireEnrollment(database.DB, userID, courseID); err != nil {
		return nil, err
	}

	var existing models.Certificate
	if err := database.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return &existing, nil
	}

	htmlData, err := generateCertificateHTML(user.FullName, course.InstructorName, course.Title)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		return nil, err
	}

	pdfURL, err := uploadCertificatePDF(pdfBytes, userID.String())
	if err != nil {
		return nil, err
	}

	var cert models.Certificate
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		serial, err := utils.GenerateUniqueCertificateSerial(tx)
		if err != nil {
			return err
		}

		cert = models.Certificate{
			Serial:      serial,
			UserID:      userID,
			CourseID:    courseID,
			CourseTitle: course.Title,
			StudentName: user.FullName,
			PdfURL:      pdfURL,
		}
		return tx.Create(&cert).Error
	})
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// VerifyCertificate resolves a serial to its issued certificate.
func VerifyCertificate(serial string) (*models.Certificate, error) {
	var cert models.Certificate
	if err := database.DB.Where("serial = ?", serial).First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func generateCertificateHTML(studentName, instructorName, courseTitle string) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	data := struct {
		StudentName    string
		InstructorName string
		CourseTitle    string
		IssueDate      string
	}{
		StudentName:    studentName,
		InstructorName: instructorName,
		CourseTitle:    courseTitle,
		IssueDate:      time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadCertificatePDF(fileBytes []byte, userID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("certificates/%s_%s", userID, uuid.New().String()),
		Folder:       "course-certificates",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
