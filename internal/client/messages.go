// ABOUTME: Message catalogs for normalized errors, field names and borrow status labels
// ABOUTME: Vietnamese mirrors the backend vocabulary; English is offered for other users

package client

import (
	"fmt"
	"regexp"
	"strings"
)

// Messages is a message catalog. The field table and validation phrases must
// track the backend's validation vocabulary.
type Messages struct {
	Lang             string
	Generic          string
	InvalidResponse  string
	FieldPlaceholder string
	ErrorPrefix      string
	Status           map[int]string
	Fields           map[string]string

	// Validation phrases, formatted with the localized field name
	MaxLength string // field, limit
	MinLength string // field, limit
	Required  string
	Email     string
	Integer   string
	Positive  string
	TooLarge  string
	URL       string
	Fallback  string // field, raw message

	StatusLabels map[BorrowStatus]string
}

var (
	atMostPattern  = regexp.MustCompile(`at most (\d+)`)
	atLeastPattern = regexp.MustCompile(`at least (\d+)`)
)

// Vietnamese is the default catalog, matching the backend's own messages
var Vietnamese = &Messages{
	Lang:             "vi",
	Generic:          "Có lỗi xảy ra",
	InvalidResponse:  "Phản hồi từ server không hợp lệ",
	FieldPlaceholder: "Trường",
	ErrorPrefix:      "Lỗi",
	Status: map[int]string{
		400: "Dữ liệu không hợp lệ. Vui lòng kiểm tra lại.",
		401: "Phiên đăng nhập hết hạn. Vui lòng đăng nhập lại.",
		403: "Bạn không có quyền thực hiện thao tác này.",
		404: "Không tìm thấy dữ liệu yêu cầu.",
		409: "Dữ liệu bị trùng lặp.",
		422: "Dữ liệu không đúng định dạng. Vui lòng kiểm tra lại.",
		500: "Lỗi máy chủ. Vui lòng thử lại sau.",
	},
	Fields: map[string]string{
		"title":       "Tên sách",
		"author":      "Tác giả",
		"isbn":        "ISBN",
		"category":    "Danh mục",
		"quantity":    "Số lượng",
		"description": "Mô tả",
		"cover_image": "Ảnh bìa",
		"username":    "Tên đăng nhập",
		"password":    "Mật khẩu",
		"email":       "Email",
		"full_name":   "Họ tên",
		"phone":       "Số điện thoại",
		"note":        "Ghi chú",
		"due_date":    "Ngày trả",
	},
	MaxLength: "%s không được quá %s ký tự",
	MinLength: "%s phải có ít nhất %s ký tự",
	Required:  "%s là bắt buộc",
	Email:     "%s không đúng định dạng email",
	Integer:   "%s phải là số nguyên",
	Positive:  "%s phải lớn hơn 0",
	TooLarge:  "%s quá lớn",
	URL:       "%s không đúng định dạng URL",
	Fallback:  "%s: %s",
	StatusLabels: map[BorrowStatus]string{
		StatusPending:  "Chờ duyệt",
		StatusApproved: "Đã duyệt",
		StatusRejected: "Từ chối",
		StatusReturned: "Đã trả",
		StatusNeedEdit: "Cần chỉnh sửa",
	},
}

// English is an alternative catalog with the same structure
var English = &Messages{
	Lang:             "en",
	Generic:          "An error occurred",
	InvalidResponse:  "Invalid response from server",
	FieldPlaceholder: "Field",
	ErrorPrefix:      "Error",
	Status: map[int]string{
		400: "Invalid data. Please check your input.",
		401: "Your session has expired. Please log in again.",
		403: "You are not allowed to perform this action.",
		404: "The requested data was not found.",
		409: "The data conflicts with an existing record.",
		422: "The data is not in a valid format. Please check your input.",
		500: "Server error. Please try again later.",
	},
	Fields: map[string]string{
		"title":       "Title",
		"author":      "Author",
		"isbn":        "ISBN",
		"category":    "Category",
		"quantity":    "Quantity",
		"description": "Description",
		"cover_image": "Cover image",
		"username":    "Username",
		"password":    "Password",
		"email":       "Email",
		"full_name":   "Full name",
		"phone":       "Phone number",
		"note":        "Note",
		"due_date":    "Due date",
	},
	MaxLength: "%s must be at most %s characters",
	MinLength: "%s must be at least %s characters",
	Required:  "%s is required",
	Email:     "%s is not a valid email address",
	Integer:   "%s must be an integer",
	Positive:  "%s must be greater than 0",
	TooLarge:  "%s is too large",
	URL:       "%s is not a valid URL",
	Fallback:  "%s: %s",
	StatusLabels: map[BorrowStatus]string{
		StatusPending:  "Pending",
		StatusApproved: "Approved",
		StatusRejected: "Rejected",
		StatusReturned: "Returned",
		StatusNeedEdit: "Needs edit",
	},
}

// Lookup returns the catalog for a language code, or nil if unknown
func Lookup(lang string) *Messages {
	switch strings.ToLower(lang) {
	case "vi", "":
		return Vietnamese
	case "en":
		return English
	default:
		return nil
	}
}

// ForStatus returns the fixed message for a non-JSON error response
func (m *Messages) ForStatus(status int, text string) string {
	if msg, ok := m.Status[status]; ok {
		return msg
	}
	if text == "" {
		text = m.Generic
	}
	return fmt.Sprintf("%s %d: %s", m.ErrorPrefix, status, text)
}

// FieldName localizes a backend field name, passing unknown names through
func (m *Messages) FieldName(field string) string {
	if name, ok := m.Fields[field]; ok {
		return name
	}
	return field
}

// TranslateIssue renders one validation issue for the given field
func (m *Messages) TranslateIssue(field, msg string) string {
	name := m.FieldName(field)

	switch {
	case strings.Contains(msg, "String should have at most"):
		return fmt.Sprintf(m.MaxLength, name, firstGroup(atMostPattern, msg))
	case strings.Contains(msg, "String should have at least"):
		return fmt.Sprintf(m.MinLength, name, firstGroup(atLeastPattern, msg))
	case strings.Contains(msg, "field required"), strings.Contains(msg, "Field required"):
		return fmt.Sprintf(m.Required, name)
	case strings.Contains(msg, "value is not a valid email"):
		return fmt.Sprintf(m.Email, name)
	case strings.Contains(msg, "value is not a valid integer"):
		return fmt.Sprintf(m.Integer, name)
	case strings.Contains(msg, "ensure this value is greater than"):
		return fmt.Sprintf(m.Positive, name)
	case strings.Contains(msg, "ensure this value is less than"):
		return fmt.Sprintf(m.TooLarge, name)
	case strings.Contains(msg, "Invalid URL"):
		return fmt.Sprintf(m.URL, name)
	}
	return fmt.Sprintf(m.Fallback, name, msg)
}

// StatusLabel returns the display label of a borrow status
func (m *Messages) StatusLabel(s BorrowStatus) string {
	if label, ok := m.StatusLabels[s]; ok {
		return label
	}
	return string(s)
}

func firstGroup(re *regexp.Regexp, s string) string {
	if match := re.FindStringSubmatch(s); len(match) > 1 {
		return match[1]
	}
	return "?"
}
