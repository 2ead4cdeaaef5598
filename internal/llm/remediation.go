package llm

// Remediation returns user-facing suggestions for a classified client
// failure, or "" when there is nothing actionable. The CLI prints this
// under the error message; context-length failures never reach it because
// the batch planner recovers from them.
func Remediation(err error) string {
	switch KindOf(err) {
	case KindAuth:
		return "Please update the key with 'aicmt configure' or the AICMT_API_KEY environment variable."
	case KindRateLimit:
		return "Suggestions:\n" +
			"1. Wait a moment and try again\n" +
			"2. Check if your API key quota is sufficient\n" +
			"3. If you frequently encounter this problem, consider reducing the request frequency"
	case KindConnection:
		return "Please check:\n" +
			"1. Your network connection\n" +
			"2. If using a custom base URL, ensure it is accessible\n" +
			"3. Check if you need to configure a proxy"
	case KindModelNotFound:
		return "The model does not exist or you do not have access to it."
	case KindBadResponse, KindOther:
		return "If the problem persists, please check the API status or contact support."
	default:
		return ""
	}
}
