// Package i18n содержит таблицу переводов интерфейса. Поддерживаются два
// языка: арабский (ar, по умолчанию) и английский (en). Ключи — английские
// строки; для неизвестного ключа или языка возвращается сам ключ.
package i18n

// Поддерживаемые локали
const (
	LangArabic  = "ar"
	LangEnglish = "en"
)

var arabic = map[string]string{
	// Навигация
	"Dashboard":       "لوحة التحكم",
	"Agents":          "الموظفين",
	"Tasks":           "المهام",
	"Purchases":       "المشتريات",
	"Income":          "المداخيل",
	"Files":           "الملفات",
	"Performance":     "تقرير الأداء",
	"Settings":        "الإعدادات",
	"Logs":            "السجلات",
	"API Tokens":      "رموز API",
	"Change Password": "تغيير كلمة المرور",
	"Logout":          "تسجيل الخروج",
	"Login":           "تسجيل الدخول",

	// Панель управления
	"Admin Dashboard":      "لوحة تحكم المدير",
	"Statistics":           "الإحصائيات",
	"Purchases This Month": "المشتريات هذا الشهر",
	"Income This Month":    "المداخيل هذا الشهر",
	"Net Profit":           "صافي الربح",
	"Open Tasks":           "المهام المفتوحة",
	"Overdue":              "متأخرة",
	"Total Agents":         "إجمالي الموظفين",
	"Top Performer":        "الأفضل أداءً",

	// Сотрудники
	"Agent Name": "اسم الموظف",
	"Phone":      "الهاتف",
	"Email":      "البريد الإلكتروني",
	"Username":   "اسم المستخدم",
	"Add Agent":  "إضافة موظف",

	// Задания
	"Task Title":  "عنوان المهمة",
	"Description": "الوصف",
	"Assigned To": "مكلف بها",
	"Due Date":    "تاريخ الاستحقاق",
	"Status":      "الحالة",
	"Create Task": "إنشاء مهمة",
	"My Tasks":    "مهامي",

	// Расходы и доходы
	"Daily Purchases": "المشتريات اليومية",
	"Add Purchase":    "إضافة مشترى",
	"Amount":          "المبلغ",
	"Date":            "التاريخ",
	"Note":            "ملاحظة",
	"Agent":           "الموظف",
	"Total":           "الإجمالي",
	"Daily Income":    "المداخيل اليومية",
	"Add Income":      "إضافة دخل",
	"Source":          "المصدر",

	// Отчет о результативности
	"Performance Report": "تقرير الأداء",
	"Employee":           "الموظف",
	"Total Purchases":    "إجمالي المشتريات",
	"This Month":         "هذا الشهر",
	"Tasks Assigned":     "المهام المكلف بها",
	"Tasks Completed":    "المهام المنجزة",
	"Completion Rate":    "معدل الإنجاز",
	"No data":            "لا توجد بيانات",

	// Сообщения об операциях
	"File uploaded":                   "تم رفع الملف",
	"Invalid file or no file":         "ملف غير صالح أو لا يوجد ملف",
	"Invalid credentials":             "بيانات الدخول غير صحيحة",
	"Logged in":                       "تم تسجيل الدخول",
	"Task completed successfully":     "تم إكمال المهمة بنجاح!",
	"Task reopened":                   "تم إعادة فتح المهمة!",
	"Agents are not allowed to do this": "غير مسموح للموظفين بهذا الإجراء",
	"Access denied":                   "غير مسموح بالوصول",
	"Income added successfully":       "تمت إضافة الخدمة بنجاح!",
	"Income deleted successfully":     "تم حذف المدخول بنجاح!",
	"Income updated successfully":     "تم تحديث المدخول بنجاح!",
	"Purchase deleted successfully":   "تم حذف المصروف بنجاح",
	"Purchase updated successfully":   "تم تحديث المصروف بنجاح",
	"Monthly target saved":            "تم حفظ الهدف الشهري",
	"Monthly target deleted":          "تم حذف الهدف الشهري",
	"Agent has dependent records":     "لا يمكن حذف الموظف: توجد سجلات مرتبطة به",

	// Общие
	"Success": "نجح",
	"Error":   "خطأ",
	"Warning": "تحذير",
	"Info":    "معلومة",

	// Вход
	"Welcome Back": "مرحباً بعودتك",
	"Password":     "كلمة المرور",
	"Sign In":      "تسجيل الدخول",
}

// T возвращает перевод ключа для указанного языка. Для английского и для
// неизвестных ключей возвращается сам ключ.
func T(lang, key string) string {
	if lang != LangArabic {
		return key
	}
	if v, ok := arabic[key]; ok {
		return v
	}
	return key
}

// IsSupported проверяет, поддерживается ли локаль
func IsSupported(lang string) bool {
	return lang == LangArabic || lang == LangEnglish
}

// Toggle переключает локаль между двумя поддерживаемыми языками
func Toggle(lang string) string {
	if lang == LangArabic {
		return LangEnglish
	}
	return LangArabic
}
