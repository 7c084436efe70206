package checkout

import "fmt"

// User facing messages of the checkout flow
const (
	msgEmptyCart           = "سلة المشتريات فارغة"
	msgMissingZone         = "الرجاء اختيار منطقة التوصيل"
	msgMissingPayment      = "الرجاء اختيار طريقة الدفع"
	msgUnorderableItem     = "بعض الأصناف في السلة غير متاحة للطلب أونلاين"
	msgLoginRequired       = "يرجى تسجيل الدخول أولاً لإتمام الطلب"
	msgNoActiveShift       = "لا يوجد شفت حالياً - مواعيد العمل يومياً من 7 صباحاً حتى 4 مساءً"
	msgShiftsUnavailable   = "تعذر تحميل مواعيد العمل"
	msgAddressPersist      = "فشل حفظ العنوان"
	msgOrderCreate         = "فشل إنشاء الطلب"
	msgNetwork             = "تعذر الاتصال بالخادم"
	msgSubmitInProgress    = "جاري إرسال الطلب، الرجاء الانتظار"
	msgSubmitFailedPrefix  = "خطأ في إرسال الطلب: "
	msgAddressPlaceholder  = "غير محدد"
	msgSavedAddressMissing = "العنوان المحفوظ غير موجود"
)

// successToastMs is how long the order confirmation stays up
const successToastMs = 5000

func orderConfirmation(orderNumber, total string) string {
	return fmt.Sprintf("تم إرسال الطلب بنجاح! ✓\nرقم الطلب: %s\nالإجمالي: %s جنيه", orderNumber, total)
}
