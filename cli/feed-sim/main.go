package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/types"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

/*
Имитатор источника местоположения.

Отдает по GET JSON-массив с одной машиной, которая случайно перемещается между запросами.
Нужен для локального запуска трекера без доступа к настоящему сервису.

Usage:
  -addr string
    	Адрес в формате <ip>:<port> (default ":8443")
  -path string
    	Путь, по которому отдаются данные (default "/last-location")
  -reg string
    	Номер машины (default "LEA-1234")
  -lat float
    	Начальная широта (default 31.5204)
  -lon float
    	Начальная долгота (default 74.3587)
  -cert string
    	Файл сертификата, вместе с -key включает HTTPS
  -key string
    	Файл закрытого ключа
  -mode string
    	Режим ответа: ok, object, garbage, error (default "ok")

Example

```
./feed-sim -addr :8443 -reg LEA-1234 -cert server.crt -key server.key
```
*/

const (
	modeOK      = "ok"
	modeObject  = "object"
	modeGarbage = "garbage"
	modeError   = "error"
)

type vehicle struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	regNo string
	lat   float64
	lng   float64
}

func newVehicle(regNo string, lat, lng float64, seed int64) *vehicle {
	return &vehicle{rnd: rand.New(rand.NewSource(seed)), regNo: regNo, lat: lat, lng: lng}
}

func (v *vehicle) step() types.VehicleRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	speed := v.rnd.Intn(90)
	status := "Moving"
	if speed == 0 {
		status = "Stopped"
	} else {
		v.lat += (v.rnd.Float64() - 0.5) * 0.002
		v.lng += (v.rnd.Float64() - 0.5) * 0.002
	}

	return types.VehicleRecord{
		types.FieldRegNo:      v.regNo,
		types.FieldLat:        v.lat,
		types.FieldLng:        v.lng,
		types.FieldSpeed:      strconv.Itoa(speed),
		types.FieldStatusText: status,
		types.FieldLocation:   fmt.Sprintf("%.4f, %.4f", v.lat, v.lng),
	}
}

func newRouter(path, mode string, v *vehicle) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(path, func(c *gin.Context) {
		switch mode {
		case modeObject:
			c.JSON(http.StatusOK, v.step())
		case modeGarbage:
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<html>Service Unavailable</html>"))
		case modeError:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "сервис недоступен"})
		default:
			record := v.step()
			log.WithFields(log.Fields(record)).Debug("Отдано местоположение")
			c.JSON(http.StatusOK, []types.VehicleRecord{record})
		}
	})

	return router
}

func main() {
	addr := ""
	path := ""
	regNo := ""
	lat := 0.0
	lon := 0.0
	certFile := ""
	keyFile := ""
	mode := ""
	verbose := false

	flag.StringVar(&addr, "addr", ":8443", "Адрес в формате <ip>:<port>")
	flag.StringVar(&path, "path", "/last-location", "Путь, по которому отдаются данные")
	flag.StringVar(&regNo, "reg", "LEA-1234", "Номер машины")
	flag.Float64Var(&lat, "lat", 31.5204, "Начальная широта")
	flag.Float64Var(&lon, "lon", 74.3587, "Начальная долгота")
	flag.StringVar(&certFile, "cert", "", "Файл сертификата, вместе с -key включает HTTPS")
	flag.StringVar(&keyFile, "key", "", "Файл закрытого ключа")
	flag.StringVar(&mode, "mode", modeOK, "Режим ответа: ok, object, garbage, error")
	flag.BoolVar(&verbose, "v", false, "Подробный лог")

	flag.Parse()

	switch mode {
	case modeOK, modeObject, modeGarbage, modeError:
	default:
		fmt.Println("Неверный режим, используйте ok, object, garbage или error в качестве значения параметра -mode")
		os.Exit(1)
	}

	if (certFile == "") != (keyFile == "") {
		fmt.Println("Параметры -cert и -key задаются только вместе, смотрите помощь (-h)")
		os.Exit(1)
	}

	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	gin.SetMode(gin.ReleaseMode)

	router := newRouter(path, mode, newVehicle(regNo, lat, lon, time.Now().UnixNano()))
	server := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	log.WithFields(log.Fields{"addr": addr, "path": path, "mode": mode, "tls": certFile != ""}).Info("Имитатор источника запущен")

	var err error
	if certFile != "" {
		err = server.ListenAndServeTLS(certFile, keyFile)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		fmt.Println("Ошибка сервера: ", err)
		os.Exit(1)
	}
}
