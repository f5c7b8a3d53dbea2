// Command iec104ctl is a reference controlling-station client: it dials
// an outstation, runs general interrogation, prints what comes back, and
// exits with a status code a caller script can branch on.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	iec104 "github.com/go104/iec104"
)

// Exit codes, documented for callers that script against this command.
const (
	exitOK               = 0
	exitParameterError   = 2
	exitProtocolViolation = 3
	exitPolicyRejection  = 4
	exitTimeout          = 5
)

func main() {
	os.Exit(run())
}

func run() int {
	address := flag.String("address", "", "outstation address, host:port")
	configPath := flag.String("config", "", "optional INI file with session parameters")
	commonAddr := flag.Uint("ca", 1, "common address of ASDU to interrogate")
	timeout := flag.Duration("timeout", 30*time.Second, "overall run timeout")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *address == "" {
		fmt.Fprintln(os.Stderr, "iec104ctl: -address is required")
		return exitParameterError
	}

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	iec104.SetLogger(logger)

	params := iec104.SessionParameters{}
	if *configPath != "" {
		var err error
		params, err = iec104.LoadSessionParametersINI(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "iec104ctl: %v\n", err)
			return exitParameterError
		}
	} else {
		var err error
		params, err = iec104.NewSessionParameters()
		if err != nil {
			fmt.Fprintf(os.Stderr, "iec104ctl: %v\n", err)
			return exitParameterError
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sess, err := iec104.OpenClient(ctx, *address, iec104.ClientConfig{Params: params})
	if err != nil {
		fmt.Fprintf(os.Stderr, "iec104ctl: dial: %v\n", err)
		return classify(err)
	}
	defer sess.Close()

	if err := sess.StartDataTransfer(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "iec104ctl: startdt: %v\n", err)
		return classify(err)
	}

	interrogation := iec104.NewASDU(iec104.CIcNa1, false, false, false, iec104.CotAct, 0, uint16(*commonAddr),
		[]iec104.InformationObject{{IOA: 0, Value: iec104.InterrogationValue{Qualifier: iec104.QOIStation}}})
	if err := sess.Submit(ctx, interrogation); err != nil {
		fmt.Fprintf(os.Stderr, "iec104ctl: submit: %v\n", err)
		return classify(err)
	}

	for {
		asdu, err := sess.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return exitOK
			}
			fmt.Fprintf(os.Stderr, "iec104ctl: receive: %v\n", err)
			return classify(err)
		}
		for _, obj := range asdu.Objects {
			fmt.Printf("%s ca=%d ioa=%d cot=%d value=%+v\n", asdu.Type(), *commonAddr, obj.IOA, asdu.Cause(), obj.Value)
		}
		if term := iec104.ClassifyCommandTermination(asdu); term != nil {
			switch {
			case iec104.IsErrSingleCmdTerm(term):
				fmt.Fprintln(os.Stderr, "iec104ctl: single command terminated")
			case iec104.IsErrDoubleCmdTerm(term):
				fmt.Fprintln(os.Stderr, "iec104ctl: double command terminated")
			default:
				fmt.Fprintln(os.Stderr, term)
			}
		}
		if asdu.Type() == iec104.CIcNa1 && asdu.Cause() == iec104.CotActTerm {
			return exitOK
		}
	}
}

func classify(err error) int {
	serr, ok := err.(*iec104.SessionError)
	if !ok {
		return exitProtocolViolation
	}
	switch serr.Kind {
	case iec104.KindPolicyViolation:
		return exitPolicyRejection
	case iec104.KindT0Timeout, iec104.KindT1Timeout:
		return exitTimeout
	default:
		return exitProtocolViolation
	}
}
