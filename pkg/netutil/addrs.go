package netutil

import (
	"fmt"
	"io"
	"net"

	"lanshare-server/pkg/logger"

	"github.com/mdp/qrterminal/v3"
)

// LocalIPv4s 返回所有已启用网卡上的 IPv4 非回环地址。
func LocalIPv4s() ([]string, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve network interfaces: %w", err)
	}

	var addresses []string
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			// 单个网卡失败不影响其他网卡
			logger.Warn("failed to get interface addresses", "interface", iface.Name, "error", err)
			continue
		}
		addresses = append(addresses, ipv4Strings(addrs)...)
	}
	return addresses, nil
}

func ipv4Strings(addrs []net.Addr) []string {
	var out []string
	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		default:
			continue
		}

		ipv4 := ip.To4()
		if ipv4 == nil || ipv4.IsLoopback() {
			continue
		}
		out = append(out, ipv4.String())
	}
	return out
}

// URLs 启动横幅中展示的访问地址，第一个为 localhost。
func URLs(port int, addresses []string) (local string, network []string) {
	local = fmt.Sprintf("http://localhost:%d", port)
	for _, ip := range addresses {
		network = append(network, fmt.Sprintf("http://%s:%d", ip, port))
	}
	return local, network
}

// PrintQRCode 在终端输出 url 的二维码，方便手机扫码访问。
func PrintQRCode(w io.Writer, url string) {
	qrterminal.GenerateWithConfig(url, qrterminal.Config{
		Level:          qrterminal.M,
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
		QuietZone:      1,
	})
}
