package payment

// Method is the closed set of wallet payment methods. Each platform offers
// exactly one native wallet; a platform that cannot present a wallet offers
// none.
type Method string

const (
	ApplePay  Method = "apple_pay"
	GooglePay Method = "google_pay"
)

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

func MethodsForPlatform(p Platform) []Method {
	switch p {
	case PlatformIOS:
		return []Method{ApplePay}
	case PlatformAndroid:
		return []Method{GooglePay}
	default:
		return nil
	}
}

func methodAvailable(p Platform, m Method) bool {
	for _, avail := range MethodsForPlatform(p) {
		if avail == m {
			return true
		}
	}
	return false
}
