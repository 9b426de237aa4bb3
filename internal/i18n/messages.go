package i18n

var messagesPtBR = map[string]string{
	"error.bad_request":            "Requisição inválida.",
	"error.internal":               "Erro interno. Tente novamente.",
	"error.not_found":              "Recurso não encontrado.",
	"error.id_invalid":             "Identificador inválido.",
	"error.unauthorized":           "Faça login para continuar.",
	"error.forbidden":              "Acesso restrito a administradores.",
	"error.login_required":         "Você precisa estar logado para ver seus pedidos.",
	"error.token_invalid":          "Token inválido ou expirado.",
	"error.fields_required":        "Todos os campos são obrigatórios.",
	"error.login_fields_required":  "Preencha todos os campos.",
	"error.email_invalid":          "Email inválido.",
	"error.password_too_short":     "Senha deve ter pelo menos %d caracteres.",
	"error.email_exists":           "Email já cadastrado. Faça login.",
	"error.invalid_credentials":    "Email ou senha inválidos.",
	"error.captcha_invalid":        "Código de verificação inválido.",
	"error.captcha_unavailable":    "Não foi possível gerar o código de verificação.",
	"error.cupcake_not_found":      "Cupcake não encontrado.",
	"error.flavor_required":        "Informe o sabor.",
	"error.price_invalid":          "O preço deve ser maior que zero.",
	"error.image_invalid":          "Imagem inválida.",
	"error.image_name_invalid":     "Nome de arquivo inválido.",
	"error.image_too_large":        "Imagem excede o tamanho máximo permitido.",
	"error.image_type_not_allowed": "Tipo de imagem não permitido.",
	"error.cart_empty":             "Sua sacola está vazia.",
	"error.order_not_found":        "Pedido não encontrado.",
	"error.session_unavailable":    "Sessão indisponível.",
	"error.rate_limit_unavailable": "Serviço de limite de requisições indisponível.",
	"error.rate_limited":           "Muitas requisições. Tente novamente em %d segundos.",
	"error.login_too_many":         "Muitas tentativas de login. Tente novamente em %d segundos.",
	"error.policy_invalid":         "Papel, recurso e ação são obrigatórios.",
	"error.policy_protected":       "Esta permissão do administrador não pode ser removida.",

	"message.registered":      "Cadastro realizado com sucesso!",
	"message.welcome":         "Bem-vindo, %s!",
	"message.logged_out":      "Você saiu da conta.",
	"message.cart_added":      "Cupcake adicionado à sacola!",
	"message.cart_updated":    "Sacola atualizada.",
	"message.cart_removed":    "Item removido da sacola.",
	"message.order_placed":    "Pedido %s realizado com sucesso!",
	"message.cupcake_created": "Cupcake cadastrado.",
	"message.cupcake_updated": "Cupcake atualizado.",
	"message.cupcake_deleted": "Cupcake excluído.",
	"message.order_deleted":   "Pedido excluído.",
	"message.policy_granted":  "Permissão concedida.",
	"message.policy_revoked":  "Permissão revogada.",
}

var messagesEnUS = map[string]string{
	"error.bad_request":            "Bad request.",
	"error.internal":               "Internal error. Please try again.",
	"error.not_found":              "Resource not found.",
	"error.id_invalid":             "Invalid id.",
	"error.unauthorized":           "Please log in to continue.",
	"error.forbidden":              "Admins only.",
	"error.login_required":         "You need to be logged in to see your orders.",
	"error.token_invalid":          "Invalid or expired token.",
	"error.fields_required":        "All fields are required.",
	"error.login_fields_required":  "Please fill in all fields.",
	"error.email_invalid":          "Invalid email.",
	"error.password_too_short":     "Password must be at least %d characters long.",
	"error.email_exists":           "Email already registered. Please log in.",
	"error.invalid_credentials":    "Invalid email or password.",
	"error.captcha_invalid":        "Invalid verification code.",
	"error.captcha_unavailable":    "Could not generate a verification code.",
	"error.cupcake_not_found":      "Cupcake not found.",
	"error.flavor_required":        "Flavor is required.",
	"error.price_invalid":          "Price must be greater than zero.",
	"error.image_invalid":          "Invalid image.",
	"error.image_name_invalid":     "Invalid file name.",
	"error.image_too_large":        "Image exceeds the maximum allowed size.",
	"error.image_type_not_allowed": "Image type not allowed.",
	"error.cart_empty":             "Your bag is empty.",
	"error.order_not_found":        "Order not found.",
	"error.session_unavailable":    "Session unavailable.",
	"error.rate_limit_unavailable": "Rate limiter unavailable.",
	"error.rate_limited":           "Too many requests. Try again in %d seconds.",
	"error.login_too_many":         "Too many login attempts. Try again in %d seconds.",
	"error.policy_invalid":         "Role, object and action are required.",
	"error.policy_protected":       "This administrator permission cannot be removed.",

	"message.registered":      "Registration successful!",
	"message.welcome":         "Welcome, %s!",
	"message.logged_out":      "You have logged out.",
	"message.cart_added":      "Cupcake added to your bag!",
	"message.cart_updated":    "Bag updated.",
	"message.cart_removed":    "Item removed from your bag.",
	"message.order_placed":    "Order %s placed successfully!",
	"message.cupcake_created": "Cupcake created.",
	"message.cupcake_updated": "Cupcake updated.",
	"message.cupcake_deleted": "Cupcake deleted.",
	"message.order_deleted":   "Order deleted.",
	"message.policy_granted":  "Permission granted.",
	"message.policy_revoked":  "Permission revoked.",
}
