package main

import "github.com/huanfeng/mclauncher/cmd"

func main() {
	cmd.Execute()
}
