package response

// 统一提示语（客户端按原文展示）
const (
	MsgSuccess       = "Success"
	MsgDone          = "Operation successfully completed!"
	MsgValidation    = "Attention!"
	MsgRouteNotFound = "Route not found"
	MsgInternal      = "Internal server error"
	MsgTooMany       = "Too many requests"
	MsgBusy          = "Server busy"
	MsgTooLarge      = "Request body too large"
	MsgTimeout       = "Request timeout"
)

func Created(entity string) string { return entity + " created Successfully!" }

func Updated(entity string) string { return entity + " Updated Successfully!" }
