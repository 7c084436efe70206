package account

const (
	msgLoginSuccess      = "تم تسجيل الدخول بنجاح"
	msgRegisterSuccess   = "تم إنشاء الحساب بنجاح"
	msgLogoutSuccess     = "تم تسجيل الخروج بنجاح"
	msgPhoneNotFound     = "رقم الهاتف غير مسجل. الرجاء إنشاء حساب جديد"
	msgLoginFailed       = "حدث خطأ أثناء تسجيل الدخول"
	msgRegisterFailed    = "فشل التسجيل"
	msgPhoneRequired     = "الرجاء إدخال رقم الهاتف"
	msgFirstNameRequired = "الرجاء إدخال الاسم"
)

// defaultEmail is sent when the user leaves the email empty
const defaultEmail = "user@example.com"
