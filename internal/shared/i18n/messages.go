// Package i18n holds the ru/kk/en message tables used in response envelopes.
package i18n

const (
	KeySuccess               = "success"
	KeyClientApplicationSent = "client_application_sent"
	KeyCarNotFound           = "car_not_found"
	KeyNotAuthorized         = "not_authorized"
	KeyCarDeleted            = "car_deleted"
	KeyAuthFailed            = "auth_failed"
	KeyUserExists            = "user_exists"
	KeyCarLimitReached       = "car_limit_reached"
	KeyNoSubscription        = "no_subscription"
	KeyLoginSuccess          = "login_success"
	KeyPlanNotFound          = "plan_not_found"
	KeyProviderNotSupported  = "provider_not_supported"
	KeyGatewayError          = "gateway_error"
	KeyInvalidSignature      = "invalid_signature"
	KeyInvalidRequest        = "invalid_request"
	KeyUnauthorized          = "unauthorized"
	KeyForbidden             = "forbidden"
	KeyRateLimited           = "rate_limited"
	KeyInternalError         = "internal_error"
	KeyAccountNotFound       = "payment_account_not_found"
)

var messages = map[Lang]map[string]string{
	RU: {
		KeySuccess:               "Успешно",
		KeyClientApplicationSent: "Заявка успешно отправлена владельцу",
		KeyCarNotFound:           "Автомобиль не найден",
		KeyNotAuthorized:         "Нет прав для этого действия",
		KeyCarDeleted:            "Автомобиль удалён",
		KeyAuthFailed:            "Неверный логин или пароль",
		KeyUserExists:            "Пользователь с таким логином уже существует",
		KeyCarLimitReached:       "Лимит автомобилей исчерпан для вашей подписки",
		KeyNoSubscription:        "У вас нет активной подписки",
		KeyLoginSuccess:          "Вы успешно вошли",
		KeyPlanNotFound:          "Тариф не найден",
		KeyProviderNotSupported:  "Платёжный провайдер не поддерживается",
		KeyGatewayError:          "Ошибка платёжного провайдера, попробуйте позже",
		KeyInvalidSignature:      "Неверная подпись запроса",
		KeyInvalidRequest:        "Некорректный запрос",
		KeyUnauthorized:          "Требуется авторизация",
		KeyForbidden:             "Доступ запрещён",
		KeyRateLimited:           "Слишком много запросов, попробуйте позже",
		KeyInternalError:         "Внутренняя ошибка сервера",
		KeyAccountNotFound:       "Платёжный аккаунт не найден",
	},
	KK: {
		KeySuccess:               "Сәтті",
		KeyClientApplicationSent: "Өтінім иесіне сәтті жіберілді",
		KeyCarNotFound:           "Автокөлік табылмады",
		KeyNotAuthorized:         "Бұл әрекетке құқығыңыз жоқ",
		KeyCarDeleted:            "Автокөлік жойылды",
		KeyAuthFailed:            "Логин немесе пароль қате",
		KeyUserExists:            "Мұндай логині бар пайдаланушы бұрыннан бар",
		KeyCarLimitReached:       "Сіздің жазылымыңыз үшін автокөлік лимиті таусылды",
		KeyNoSubscription:        "Сізде белсенді жазылым жоқ",
		KeyLoginSuccess:          "Сәтті кірдіңіз",
		KeyPlanNotFound:          "Тариф табылмады",
		KeyProviderNotSupported:  "Төлем провайдеріне қолдау көрсетілмейді",
		KeyGatewayError:          "Төлем провайдерінің қатесі, кейінірек қайталаңыз",
		KeyInvalidSignature:      "Сұраныс қолтаңбасы қате",
		KeyInvalidRequest:        "Сұраныс қате",
		KeyUnauthorized:          "Авторизация қажет",
		KeyForbidden:             "Қол жеткізуге тыйым салынған",
		KeyRateLimited:           "Сұраныстар тым көп, кейінірек қайталаңыз",
		KeyInternalError:         "Сервердің ішкі қатесі",
		KeyAccountNotFound:       "Төлем аккаунты табылмады",
	},
	EN: {
		KeySuccess:               "Success",
		KeyClientApplicationSent: "Application successfully sent to owner",
		KeyCarNotFound:           "Car not found",
		KeyNotAuthorized:         "Not authorized for this action",
		KeyCarDeleted:            "Car deleted",
		KeyAuthFailed:            "Incorrect login or password",
		KeyUserExists:            "User with this login already exists",
		KeyCarLimitReached:       "Car limit reached for your subscription",
		KeyNoSubscription:        "No active subscription",
		KeyLoginSuccess:          "Login successful",
		KeyPlanNotFound:          "Subscription plan not found",
		KeyProviderNotSupported:  "Payment provider is not supported",
		KeyGatewayError:          "Payment provider error, please try again later",
		KeyInvalidSignature:      "Invalid request signature",
		KeyInvalidRequest:        "Invalid request",
		KeyUnauthorized:          "Authorization required",
		KeyForbidden:             "Access denied",
		KeyRateLimited:           "Too many requests, please try again later",
		KeyInternalError:         "Internal server error",
		KeyAccountNotFound:       "Payment account not found",
	},
}

// Get returns the message for key in lang, falling back to Russian and then
// to the key itself.
func Get(key string, lang Lang) string {
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	if msg, ok := messages[RU][key]; ok {
		return msg
	}
	return key
}

// All returns the message for key in every supported language.
func All(key string) map[Lang]string {
	out := make(map[Lang]string, len(Supported))
	for _, l := range Supported {
		out[l] = Get(key, l)
	}
	return out
}

// Has reports whether key is a known message key.
func Has(key string) bool {
	_, ok := messages[RU][key]
	return ok
}
