// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/siteforge-io/siteforge/internal/recommend"
)

// maxRequestBodyBytes bounds decoded request bodies.
const maxRequestBodyBytes = 1 << 20 // 1 MiB

// validate is the shared validator instance. Validator instances cache
// struct metadata, so a single instance is reused across requests.
var validate = validator.New(validator.WithRequiredStructEnabled())

// RecommendationRequest is the POST /api/v1/recommendations body.
//
// TopK and MinScore are pointers so "absent" is distinguishable from an
// explicit zero: absent means "use the configured default", while an
// explicit top_k of 0 requests an empty result.
type RecommendationRequest struct {
	// Description is the free-text project or business description.
	Description string `json:"description" validate:"required,max=4000"`

	// Name is an optional business or project name.
	Name string `json:"name,omitempty" validate:"max=200"`

	// Industries optionally names the industries the site is for.
	Industries []string `json:"industries,omitempty" validate:"max=20,dive,max=100"`

	// Audience optionally narrows the target audience.
	Audience []string `json:"audience,omitempty" validate:"max=20,dive,max=100"`

	// SellingPoints optionally lists unique selling points.
	SellingPoints []string `json:"selling_points,omitempty" validate:"max=20,dive,max=200"`

	// TopK is the maximum number of recommendations to return.
	TopK *int `json:"top_k,omitempty" validate:"omitempty,min=0"`

	// MinScore overrides the configured score threshold.
	MinScore *float64 `json:"min_score,omitempty" validate:"omitempty,min=0,max=1"`
}

// ToEngineRequest converts the API request to the engine's request type.
// Absent top_k and min_score map to the engine's "use default" sentinels.
func (r *RecommendationRequest) ToEngineRequest(requestID string) recommend.Request {
	k := -1
	if r.TopK != nil {
		k = *r.TopK
	}

	minScore := -1.0
	if r.MinScore != nil {
		minScore = *r.MinScore
	}

	return recommend.Request{
		Query: recommend.Query{
			Text:          r.Description,
			Name:          r.Name,
			Industries:    r.Industries,
			Audience:      r.Audience,
			SellingPoints: r.SellingPoints,
		},
		K:         k,
		MinScore:  minScore,
		RequestID: requestID,
	}
}

// decodeAndValidate decodes a JSON request body into dst and runs
// validation. Returns a client-presentable error message on failure.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)
	defer body.Close()

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		switch {
		case err == io.EOF:
			return fmt.Errorf("request body is empty")
		case strings.Contains(err.Error(), "unknown field"):
			return fmt.Errorf("unknown field in request body: %v", err)
		default:
			return fmt.Errorf("malformed JSON body: %v", err)
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if ok := isValidationErrors(err, &verrs); ok {
			return fmt.Errorf("validation failed: %s", formatValidationErrors(verrs))
		}
		return fmt.Errorf("validation failed: %v", err)
	}

	return nil
}

// isValidationErrors unwraps err into validator.ValidationErrors.
func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

// formatValidationErrors builds a compact, field-oriented message.
func formatValidationErrors(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", jsonFieldName(fe)))
		case "max":
			parts = append(parts, fmt.Sprintf("%s exceeds the maximum of %s", jsonFieldName(fe), fe.Param()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s is below the minimum of %s", jsonFieldName(fe), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", jsonFieldName(fe), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// jsonFieldName converts the validator's Go field path to a lower snake
// form matching the JSON wire names.
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	switch name {
	case "Description":
		return "description"
	case "Name":
		return "name"
	case "Industries":
		return "industries"
	case "Audience":
		return "audience"
	case "SellingPoints":
		return "selling_points"
	case "TopK":
		return "top_k"
	case "MinScore":
		return "min_score"
	default:
		return strings.ToLower(name)
	}
}
