package notify

import (
	"fmt"
	"strconv"
	"strings"

	"dexwatch/internal/domain"
)

// DefaultTradeBotHandle is the Telegram handle of the ToxiSol execution
// bot that receives trade commands.
const DefaultTradeBotHandle = "ToxiSolanaBot"

// TradeCommand renders the execution command for a signal, addressed to
// the trade bot: "@ToxiSolanaBot /buy 0xPAIR 50 ethereum".
func TradeCommand(botHandle string, sig *domain.TradeSignal) string {
	return fmt.Sprintf("@%s /%s %s %s %s",
		botHandle, sig.Action, sig.PairAddress, formatAmount(sig.Amount), sig.ChainID)
}

// TradeConfirmation renders the post-command confirmation:
// "BUY executed for UNI (0xPAIR): 50 units".
func TradeConfirmation(sig *domain.TradeSignal) string {
	return fmt.Sprintf("%s executed for %s (%s): %s units",
		strings.ToUpper(string(sig.Action)), sig.BaseSymbol, sig.PairAddress, formatAmount(sig.Amount))
}

// formatAmount renders an amount with the fewest digits that round-trip.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
