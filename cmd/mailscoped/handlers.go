package main

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/mailscope/mailscope"
	"github.com/mailscope/mailscope/export"
)

type verifyRequest struct {
	// Text is a newline-separated address list, as pasted into a textarea.
	Text string `json:"text"`
	// Emails is the pre-split alternative to Text.
	Emails []string `json:"emails"`
}

func (r verifyRequest) lines() []string {
	if len(r.Emails) > 0 {
		return r.Emails
	}
	return strings.Split(r.Text, "\n")
}

func hasAddresses(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

type verifyResponse struct {
	Records []mailscope.Record `json:"records"`
}

type server struct {
	verifier *mailscope.Verifier
	workers  int
}

func (s *server) runBatch(c *fiber.Ctx) (mailscope.Batch, error) {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	lines := req.lines()
	if !hasAddresses(lines) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "no addresses provided")
	}

	start := time.Now()
	batch, err := s.verifier.VerifyBatch(c.UserContext(), lines, mailscope.BatchOptions{Workers: s.workers})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"lines": len(lines),
			"error": err,
		}).Warn("batch verification aborted")
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "verification aborted")
	}

	logrus.WithFields(logrus.Fields{
		"lines":     len(lines),
		"addresses": len(batch),
		"elapsed":   time.Since(start).Round(time.Millisecond).String(),
	}).Info("batch verified")
	return batch, nil
}

// handleVerify answers POST /v1/verify with the records as JSON.
func (s *server) handleVerify(c *fiber.Ctx) error {
	batch, err := s.runBatch(c)
	if err != nil {
		return err
	}
	return c.JSON(verifyResponse{Records: batch.Records()})
}

// handleVerifyExport answers POST /v1/verify/export with an xlsx attachment.
func (s *server) handleVerifyExport(c *fiber.Ctx) error {
	batch, err := s.runBatch(c)
	if err != nil {
		return err
	}

	sheet := "Run " + time.Now().UTC().Format("2006-01-02 15.04.05")
	var buf bytes.Buffer
	if err := export.Write(&buf, sheet, batch.Records()); err != nil {
		logrus.WithError(err).Error("workbook export failed")
		return fiber.NewError(fiber.StatusInternalServerError, "export failed")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.Filename))
	return c.Send(buf.Bytes())
}

// handleHealth answers GET /.
func (s *server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"version": version,
	})
}
