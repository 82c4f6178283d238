package response

// ValidationError 单个字段的校验失败
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Envelope 所有接口统一返回结构
type Envelope struct {
	Data             any               `json:"data"`
	Message          string            `json:"message"`
	Success          bool              `json:"success"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

// Page 列表接口：在 Envelope 基础上带分页信息
type Page struct {
	Envelope
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// New validationErrors 保证不为 null
func New(success bool, msg string, data any, errs []ValidationError) Envelope {
	if errs == nil {
		errs = []ValidationError{}
	}
	return Envelope{Data: data, Message: msg, Success: success, ValidationErrors: errs}
}

func OK(data any, msg string) Envelope {
	if msg == "" {
		msg = MsgSuccess
	}
	return New(true, msg, data, nil)
}

// Error data 为 null
func Error(msg string) Envelope { return New(false, msg, nil, nil) }

func Invalid(errs []ValidationError) Envelope { return New(false, MsgValidation, nil, errs) }

func Paged[T any](items []T, page, totalPages int) Page {
	if items == nil {
		items = []T{}
	}
	return Page{Envelope: OK(items, MsgSuccess), CurrentPage: page, TotalPages: totalPages}
}
