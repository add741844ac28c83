package mailtrap

// Version is the library version reported in the User-Agent header.
const Version = "0.4.0"

func defaultUserAgent() string {
	return "mailtrap-go/" + Version
}
