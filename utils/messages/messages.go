// Package messages holds the fixed Kurdish (Sorani) strings shown to visitors.
// The public site is Kurdish-only, so these are constants rather than a
// translation catalog.
package messages

const (
	// Validation failures
	InvalidPhone   = "ژمارەی مۆبایل نادروستە. دەبێ بە 07 دەست پێبکات"
	InvalidRating  = "تکایە هەڵسەنگاندنێک هەڵبژێرە"
	InvalidComment = "بۆچوونەکە دەبێ لە نێوان 10 بۆ 500 پیت بێت"
	InvalidName    = "تکایە ناوەکەت بنووسە"

	// Duplicate actions (one per device)
	AlreadyReviewed      = "تۆ پێشتر ئەم مامۆستایەت هەڵسەنگاندووە"
	AlreadyReported      = "تۆ پێشتر ئەم هەڵسەنگاندنەت گوزارشتکردووە"
	AlreadyMarkedHelpful = "تۆ پێشتر ئەم هەڵسەنگاندنەت وەک سوودمەند نیشانکردووە"

	// Generic outcomes
	OperationFailed = "هەڵەیەک ڕوویدا. تکایە دووبارە هەوڵبدەرەوە"
	ReviewNotFound  = "هەڵسەنگاندنەکە نەدۆزرایەوە"
	TeacherNotFound = "مامۆستاکە نەدۆزرایەوە"
)
