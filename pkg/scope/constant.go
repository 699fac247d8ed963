package scope

import "time"

// TokenExpirationDuration is the lifetime of operator tokens issued by CreateToken.
const TokenExpirationDuration = time.Hour * 12
