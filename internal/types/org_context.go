package types

import "strings"

// OrgContext carries optional organizational context supplied with an
// enhancement request. Every field is optional; non-empty fields bias the
// extraction and regeneration prompts.
type OrgContext struct {
	Industry           string `json:"org_industry,omitempty"`
	CompanyName        string `json:"company_name,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
	CompanyCulture     string `json:"company_culture,omitempty"`
	CompanyValues      string `json:"company_values,omitempty"`
	BusinessContext    string `json:"business_context,omitempty"`
	RoleContext        string `json:"role_context,omitempty"`
	RoleType           string `json:"role_type,omitempty"`
	RoleGrade          string `json:"role_grade,omitempty"`
	Location           string `json:"location,omitempty"`
	WorkEnvironment    string `json:"work_environment,omitempty"`
	ReportingTo        string `json:"reporting_to,omitempty"`
}

// IsEmpty reports whether no context fields are set.
func (o *OrgContext) IsEmpty() bool {
	if o == nil {
		return true
	}
	for _, v := range o.fields() {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Summary renders the populated context fields as labeled lines for
// inclusion in a prompt. Returns "" when no fields are set.
func (o *OrgContext) Summary() string {
	if o == nil {
		return ""
	}
	labels := []string{
		"Industry", "Company", "Company description", "Company culture",
		"Company values", "Business context", "Role context", "Role type",
		"Role grade", "Location", "Work environment", "Reporting to",
	}
	var sb strings.Builder
	for i, v := range o.fields() {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		sb.WriteString(labels[i])
		sb.WriteString(": ")
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (o *OrgContext) fields() []string {
	return []string{
		o.Industry, o.CompanyName, o.CompanyDescription, o.CompanyCulture,
		o.CompanyValues, o.BusinessContext, o.RoleContext, o.RoleType,
		o.RoleGrade, o.Location, o.WorkEnvironment, o.ReportingTo,
	}
}
