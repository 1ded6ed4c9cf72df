// Package discovery finds records API instances on the local network via
// mDNS. The server advertises itself as a "_carelog._tcp" service; the
// client falls back to discovery when no api_base_url is configured, so a
// freshly installed terminal can find its server without any setup.
//
// Usage:
//
//	scanner := discovery.NewScanner()
//	services, err := scanner.Scan(ctx)
//	for _, svc := range services {
//		fmt.Println(svc.BaseURL())
//	}
package discovery
