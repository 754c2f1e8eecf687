package finance

// Classify maps a raw billing type onto BillingRegular or BillingExtra.
// Only "extra" and the legacy "tm" count as extra. Anything else, including unset or unknown
// values, is regular.
func Classify(billingType BillingType) BillingType {
	switch billingType {
	case BillingExtra, BillingLegacyTM:
		return BillingExtra
	default:
		return BillingRegular
	}
}
